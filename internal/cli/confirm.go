package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/roostlabs/roost/internal/ui"
)

// shouldPromptForConfirm reports whether an interactive confirmation is
// possible: text output with both stdin and stdout attached to a terminal.
// JSON mode never prompts; agents pass --force or get a structured error.
func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// promptForConfirm asks a yes/no question, defaulting to no. Returns false
// when prompting is not possible.
func promptForConfirm(question string) bool {
	if !shouldPromptForConfirm() {
		return false
	}
	if question == "" {
		question = "Apply changes?"
	}

	fmt.Printf("%s %s ", question, ui.Hint("[y/N]"))
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
