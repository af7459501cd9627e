package print

import (
	"os"

	"golang.org/x/term"
)

func stdoutTerminalWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w == 0 {
		return 0, false
	}
	return w, true
}
