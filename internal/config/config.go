package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingAPIKey is returned when SuperJob is used without an app key
	ErrMissingAPIKey = errors.New("missing SuperJob API key (set SUPERJOB_API_KEY)")
	errInvalidConfig = errors.New("invalid configuration")
)

// AppConfig represents the application configuration
type AppConfig struct {
	Languages       []string       `yaml:"languages"`
	Currency        string         `yaml:"currency"`
	Workers         int            `yaml:"workers"`
	IsolateFailures bool           `yaml:"isolate_failures"`
	HTTP            HTTPConfig     `yaml:"http"`
	HeadHunter      HeadHunterConf `yaml:"headhunter"`
	SuperJob        SuperJobConf   `yaml:"superjob"`
}

type HTTPConfig struct {
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	ProxyURL          string        `yaml:"proxy"`
	UserAgent         string        `yaml:"user_agent"`
}

type HeadHunterConf struct {
	BaseURL     string `yaml:"base_url"`
	Profession  string `yaml:"profession"`
	Area        int    `yaml:"area"`
	SearchField string `yaml:"search_field"`
	PerPage     int    `yaml:"per_page"`
	// MinFound is inclusive: a language with found <= MinFound is dropped
	MinFound int `yaml:"min_found"`
}

type SuperJobConf struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"` // Prefer SUPERJOB_API_KEY env var
	Profession string `yaml:"profession"`
	Catalogue  int    `yaml:"catalogue"`
	Town       string `yaml:"town"`
	Count      int    `yaml:"count"`
	MinFound   int    `yaml:"min_found"`
}

// DefaultLanguages is the catalog statistics are collected for
var DefaultLanguages = []string{
	"JavaScript",
	"Java",
	"Python",
	"Ruby",
	"PHP",
	"C++",
	"C#",
	"C",
	"Go",
	"Objective-C",
	"Scala",
	"Swift",
	"TypeScript",
	"Kotlin",
	"1C",
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		Languages: append([]string(nil), DefaultLanguages...),
		Currency:  "RUR",
		Workers:   1,
		HTTP: HTTPConfig{
			ConnectTimeout:    3050 * time.Millisecond,
			ReadTimeout:       27 * time.Second,
			RequestsPerSecond: 5,
		},
		HeadHunter: HeadHunterConf{
			BaseURL:     "https://api.hh.ru/vacancies",
			Profession:  "Программист",
			Area:        1,
			SearchField: "name",
			PerPage:     100,
			MinFound:    100,
		},
		SuperJob: SuperJobConf{
			BaseURL:    "https://api.superjob.ru/2.0/vacancies/",
			Profession: "Программист",
			Catalogue:  48,
			Town:       "Москва",
			Count:      100,
			MinFound:   0,
		},
	}
}

// Load reads .env, then the YAML file at path (if any), then environment overrides.
// An empty path falls back to DEVSALARY_CONFIG and then config.yaml; a missing
// default file is not an error.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("DEVSALARY_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if key := strings.TrimSpace(os.Getenv("SUPERJOB_API_KEY")); key != "" {
		cfg.SuperJob.APIKey = key
	}
	if proxy := strings.TrimSpace(os.Getenv("DEVSALARY_PROXY")); proxy != "" {
		cfg.HTTP.ProxyURL = proxy
	}
}

// Validate checks the values sources depend on
func (c *AppConfig) Validate() error {
	var problems []string
	if len(c.Languages) == 0 {
		problems = append(problems, "languages must not be empty")
	}
	if c.Currency == "" {
		problems = append(problems, "currency must be set")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.HeadHunter.PerPage < 1 || c.HeadHunter.PerPage > 100 {
		problems = append(problems, "headhunter.per_page must be between 1 and 100")
	}
	if c.HeadHunter.MinFound < 0 || c.SuperJob.MinFound < 0 {
		problems = append(problems, "min_found must not be negative")
	}
	if c.SuperJob.Count < 1 || c.SuperJob.Count > 100 {
		problems = append(problems, "superjob.count must be between 1 and 100")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
