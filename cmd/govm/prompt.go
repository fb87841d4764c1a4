package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/terminal"
)

var (
	isInteractive = terminal.IsInteractive
	runConfirm    = func(title string, value *bool) error {
		return huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(value))).Run()
	}
)

// confirm asks a yes/no question. A huh confirm is used on an interactive
// terminal, otherwise a line prompt is read from in. Aborting the form
// counts as no.
func confirm(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	if isInteractive() {
		value := defaultYes
		if err := runConfirm(prompt, &value); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return false, nil
			}
			return false, err
		}
		return value, nil
	}
	return promptYesNo(in, out, prompt, defaultYes)
}

// promptYesNo reads a yes/no answer from in. An empty line picks the default;
// end of input without an answer is treated as no.
func promptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	reader := bufio.NewReader(in)
	for {
		format := messages.PromptNoDefaultFmt
		if defaultYes {
			format = messages.PromptYesDefaultFmt
		}
		if _, err := fmt.Fprintf(out, format, prompt); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		response := strings.TrimSpace(line)
		if response == "" {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return defaultYes, nil
		}
		switch strings.ToLower(response) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, fmt.Errorf(messages.PromptInvalidResponse, response)
		}
		if _, err := fmt.Fprintln(out, messages.PromptRetryYesNo); err != nil {
			return false, err
		}
	}
}
