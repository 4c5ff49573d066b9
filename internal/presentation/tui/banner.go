package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive commands.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{"  _                           ", "#818cf8"},
		{" | |  ___   ___  _ __ ___     ", "#a78bfa"},
		{" | | / _ \\ / _ \\| '_ ` _ \\    ", "#c084fc"},
		{" | || (_) | (_) | | | | | |   ", "#e879f9"},
		{" |_| \\___/ \\___/|_| |_| |_|   ", "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println(termenv.String("  weave branching stories  v" + version).Foreground(p.Color("#fb7185")))
	fmt.Println()
}
