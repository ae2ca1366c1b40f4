// Package ui provides colorized console output for the Moodle Augment
// services: startup banners, endpoint listings, and provider availability
// badges.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR DEFINITIONS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)
	debugBadge   = color.New(color.FgMagenta)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	mutedText   = color.New(color.FgHiBlack)

	// Special colors
	neonBlue = color.New(color.FgHiCyan, color.Bold)

	// Method colors
	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// Endpoint describes one route for the startup listing.
type Endpoint struct {
	Method      string
	Path        string
	Description string
}

// PrintStartupInfo prints the listen address and the endpoint listing.
func PrintStartupInfo(host string, port int, endpoints []Endpoint) {
	fmt.Println()
	infoBadge.Print("[SERVER]")
	fmt.Print(" Listening on ")
	neonBlue.Printf("http://%s:%d\n", host, port)

	fmt.Println()
	printEndpoints(endpoints)
}

// PrintProviderStatus prints one availability line per provider, sorted by
// name so restarts produce identical output.
func PrintProviderStatus(availability map[string]bool) {
	names := make([]string, 0, len(availability))
	for name := range availability {
		names = append(names, name)
	}
	sort.Strings(names)

	infoBadge.Print("[SERVER]")
	fmt.Println(" Provider availability:")
	for _, name := range names {
		if availability[name] {
			successText.Printf("   ✓ %-12s", name)
			mutedText.Println("ready")
		} else {
			errorText.Printf("   ✗ %-12s", name)
			mutedText.Println("no credentials")
		}
	}
	fmt.Println()
}

// printEndpoints prints the available API endpoints in a box sized to the
// longest route.
func printEndpoints(endpoints []Endpoint) {
	maxPath, maxDesc := 0, 0
	for _, e := range endpoints {
		if len(e.Path) > maxPath {
			maxPath = len(e.Path)
		}
		if len(e.Description) > maxDesc {
			maxDesc = len(e.Description)
		}
	}

	width := 11 + maxPath + maxDesc
	mutedText.Printf("  ┌%s┐\n", strings.Repeat("─", width))
	for _, e := range endpoints {
		mutedText.Print("  │ ")
		printMethodBadge(e.Method)
		fmt.Printf(" %-*s  ", maxPath, e.Path)
		mutedText.Printf("%-*s", maxDesc, e.Description)
		mutedText.Println(" │")
	}
	mutedText.Printf("  └%s┘\n", strings.Repeat("─", width))
	fmt.Println()
}

// printMethodBadge prints the HTTP method with appropriate color.
func printMethodBadge(method string) {
	switch method {
	case "POST":
		methodPOST.Printf(" %-4s ", method)
	case "GET":
		methodGET.Printf(" %-4s ", method)
	default:
		debugBadge.Printf(" %-4s ", method)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SHUTDOWN MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Server stopped. Goodbye! 👋")
}
