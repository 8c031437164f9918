package cmd

import (
	"fmt"
	"strings"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

var logoSmall = `
          _                _
 __ __ __(_)_ _ ___ __ ___| |_  __ _ _ _
 \ V  V /| | '_/ -_) _/ _ \ ' \/ _' | ' \
  \_/\_/ |_|_| \___\__\___|_||_\__,_|_||_|
`

func PrintLogoSmall() {
	fmt.Print(Cyan + Bold)
	fmt.Println(logoSmall)
	fmt.Print(Reset)
}

func PrintHeader(title string) {
	width := 50
	padding := (width - len(title) - 2) / 2

	fmt.Println()
	fmt.Print(Cyan)
	fmt.Println("  ╭" + strings.Repeat("─", width) + "╮")
	fmt.Printf("  │%s %s%s%s %s│\n",
		strings.Repeat(" ", padding),
		Bold+White, title, Reset+Cyan,
		strings.Repeat(" ", width-padding-len(title)-2))
	fmt.Println("  ╰" + strings.Repeat("─", width) + "╯")
	fmt.Print(Reset)
}

func PrintSection(title string) {
	fmt.Println()
	fmt.Printf("  %s%s▸ %s%s\n", Bold, Magenta, title, Reset)
	fmt.Printf("  %s%s%s\n", Dim, strings.Repeat("─", 48), Reset)
}

func PrintKeyValue(key, value string) {
	fmt.Printf("  %s%-12s%s %s%s%s\n", Dim, key, Reset, White, value, Reset)
}

func PrintKeyValueHighlight(key, value string) {
	fmt.Printf("  %s%-12s%s %s%s%s%s\n", Dim, key, Reset, Bold, Cyan, value, Reset)
}

func PrintSuccess(msg string) {
	fmt.Printf("\n  %s%s✓ %s%s\n", Bold, Green, msg, Reset)
}

func PrintError(msg string) {
	fmt.Printf("\n  %s%s✗ %s%s\n", Bold, Red, msg, Reset)
}

func PrintInfo(msg string) {
	fmt.Printf("  %s%s→ %s%s\n", Dim, Cyan, msg, Reset)
}

func PrintDivider() {
	fmt.Printf("\n  %s%s%s\n", Dim, strings.Repeat("─", 50), Reset)
}

func PrintStatus(label, status, color string) {
	fmt.Printf("  %s%-12s%s [%s%s%s%s]\n", Dim, label, Reset, Bold, color, status, Reset)
}
