// Package ui provides colorized console output for the Moodle Augment
// services.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASCII ART BANNER
// ══════════════════════════════════════════════════════════════════════════════

// PrintBanner displays the ASCII art startup banner. The service label tells
// the two binaries apart in a terminal full of logs.
func PrintBanner(service, version string) {
	// Clear some space
	fmt.Println()

	// Define colors for gradient effect
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	hiCyan := color.New(color.FgHiCyan)
	hiMagenta := color.New(color.FgHiMagenta)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	// Top border
	cyan.Println("╔════════════════════════════════════════════════════════╗")

	// MOODLE ASCII Art with gradient
	cyan.Print("║  ")
	hiCyan.Print("███╗   ███╗")
	white.Print(" ██████╗ ")
	hiMagenta.Print(" ██████╗ ")
	magenta.Print("██████╗ ██╗     ███████╗")
	cyan.Println(" ║")

	cyan.Print("║  ")
	hiCyan.Print("████╗ ████║")
	white.Print("██╔═══██╗")
	hiMagenta.Print("██╔═══██╗")
	magenta.Print("██╔══██╗██║     ██╔════╝")
	cyan.Println(" ║")

	cyan.Print("║  ")
	hiCyan.Print("██╔████╔██║")
	white.Print("██║   ██║")
	hiMagenta.Print("██║   ██║")
	magenta.Print("██║  ██║██║     █████╗  ")
	cyan.Println(" ║")

	cyan.Print("║  ")
	hiCyan.Print("██║╚██╔╝██║")
	white.Print("██║   ██║")
	hiMagenta.Print("██║   ██║")
	magenta.Print("██║  ██║██║     ██╔══╝  ")
	cyan.Println(" ║")

	cyan.Print("║  ")
	hiCyan.Print("██║ ╚═╝ ██║")
	white.Print("╚██████╔╝")
	hiMagenta.Print("╚██████╔╝")
	magenta.Print("██████╔╝███████╗███████╗")
	cyan.Println(" ║")

	cyan.Print("║  ")
	hiCyan.Print("╚═╝     ╚═╝")
	white.Print(" ╚═════╝ ")
	hiMagenta.Print(" ╚═════╝ ")
	magenta.Print("╚═════╝ ╚══════╝╚══════╝")
	cyan.Println(" ║")

	// Middle separator
	cyan.Println("╠════════════════════════════════════════════════════════╣")

	// Info line
	pad := 27 - len(service) - len(version)
	if pad < 1 {
		pad = 1
	}
	cyan.Print("║  ")
	yellow.Print("🎓 MOODLE AUGMENT")
	dim.Print("  │  ")
	hiMagenta.Print(service)
	dim.Print("  │  ")
	white.Print(version)
	fmt.Print(strings.Repeat(" ", pad))
	cyan.Println("║")

	// Bottom border
	cyan.Println("╚════════════════════════════════════════════════════════╝")

	fmt.Println()
}
