// Package terminal reports whether govm is talking to a person at a terminal.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

var isTerminalFd = term.IsTerminal

// IsInteractive reports whether stdin and stdout are both terminals, which is
// when prompts can be rendered as forms.
func IsInteractive() bool {
	return isTerminalFd(int(os.Stdin.Fd())) && isTerminalFd(int(os.Stdout.Fd()))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isTerminalFd(int(f.Fd()))
}
