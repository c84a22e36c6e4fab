package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner for the chat client.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	title := termenv.String("  concierge").Foreground(p.Color("#818cf8")).Bold()
	sub := termenv.String("  airline support assistant " + strings.TrimSpace(version)).Foreground(p.Color("#a78bfa"))

	fmt.Println()
	fmt.Println(title)
	fmt.Println(sub)
	fmt.Println()
}
