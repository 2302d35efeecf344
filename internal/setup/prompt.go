package setup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter wraps line-oriented interactive input for the wizard.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	eof     bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// ask prints a prompt and reads one line. After EOF every answer is empty.
func (p *prompter) ask(prompt string) string {
	fmt.Fprintf(p.out, "%s ", prompt)
	if p.scanner.Scan() {
		return strings.TrimSpace(p.scanner.Text())
	}
	p.eof = true
	return ""
}

// askYesNo prints a y/n prompt and returns true for yes.
func (p *prompter) askYesNo(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	answer := strings.ToLower(p.ask(fmt.Sprintf("%s %s:", prompt, suffix)))
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// askChoice prints numbered options and returns the selected 0-based index.
// EOF falls back to the first option.
func (p *prompter) askChoice(prompt string, options []string) int {
	fmt.Fprintln(p.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt)
	}
	for !p.eof {
		answer := p.ask("Choice:")
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
	}
	return 0
}

// askIntRange keeps asking until the answer is an integer in [min, max].
// EOF falls back to min.
func (p *prompter) askIntRange(prompt string, min, max int) int {
	for !p.eof {
		answer := p.ask(fmt.Sprintf("%s [%d-%d]:", prompt, min, max))
		n, err := strconv.Atoi(answer)
		if err == nil && n >= min && n <= max {
			return n
		}
		fmt.Fprintf(p.out, "Please enter a number between %d and %d.\n", min, max)
	}
	return min
}
