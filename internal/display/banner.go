package display

import (
	"fmt"
	"os"

	"vid2anim/internal/term"
)

// PrintBanner prints the ASCII art banner; magenta when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `       _     _ ____              _
__   _(_) __| |___ \  __ _ _ __ (_)_ __ ___
\ \ / / |/ _`+"`"+` | __) |/ _`+"`"+` | '_ \| | '_ `+"`"+` _ \
 \ V /| | (_| |/ __/| (_| | | | | | | | | | |
  \_/ |_|\__,_|_____|\__,_|_| |_|_|_| |_| |_|
`)
	if term.Enabled() {
		fmt.Fprint(os.Stdout, "\033[0m")
	}
	fmt.Fprintln(os.Stdout)
}
