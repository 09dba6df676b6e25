package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

const bannerText = `
██████╗ ███████╗██╗   ██╗    ███████╗ █████╗ ██╗      █████╗ ██████╗ ██╗   ██╗
██╔══██╗██╔════╝██║   ██║    ██╔════╝██╔══██╗██║     ██╔══██╗██╔══██╗╚██╗ ██╔╝
██║  ██║█████╗  ██║   ██║    ███████╗███████║██║     ███████║██████╔╝ ╚████╔╝
██║  ██║██╔══╝  ╚██╗ ██╔╝    ╚════██║██╔══██║██║     ██╔══██║██╔══██╗  ╚██╔╝
██████╔╝███████╗ ╚████╔╝     ███████║██║  ██║███████╗██║  ██║██║  ██║   ██║
╚═════╝ ╚══════╝  ╚═══╝      ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// ColorizeText applies a random color fade to the input text
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := []rune(text)
	half := len(chars) / 2
	if half == 0 {
		half = 1
	}

	var sb strings.Builder
	for i, ch := range chars {
		sb.WriteString(startColor.Fade(0, float32(len(chars)), float32(i%half), endColor).Sprint(string(ch)))
	}
	return sb.String()
}

// PrintBanner displays the application banner
func PrintBanner(silence bool) {
	if !silence {
		fmt.Println(ColorizeText(bannerText))
	}
}

// ColorizeSalary formats a monthly ruble salary and colors it by band
func ColorizeSalary(amount int) string {
	formatted := utils.FormatSalary(amount)

	switch {
	case amount <= 0:
		return pterm.Red(formatted)
	case amount >= 300000:
		return pterm.Green(formatted)
	case amount >= 200000:
		return pterm.LightGreen(formatted)
	case amount >= 100000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
