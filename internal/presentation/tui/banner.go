package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for scenestack.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String("  ___  ___ ___ _ __   ___  ___| |_ __ _  ___| | __").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" / __|/ __/ _ \\ '_ \\ / _ \\/ __| __/ _' |/ __| |/ /").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" \\__ \\ (_|  __/ | | |  __/\\__ \\ || (_| | (__|   < ").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" |___/\\___\\___|_| |_|\\___||___/\\__\\__,_|\\___|_|\\_\\").Foreground(p.Color("#e879f9"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println()
}
