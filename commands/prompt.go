package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter asks questions on an interactive terminal. EOF on input behaves
// like an empty answer.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(question string) string {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *prompter) confirm(question string) bool {
	return strings.EqualFold(p.ask(question+" (y/n): "), "y")
}

// lines reads one entry per line until an empty line or EOF.
func (p *prompter) lines(question string) []string {
	fmt.Fprintln(p.out, question)
	var out []string
	for p.in.Scan() {
		line := strings.TrimSpace(p.in.Text())
		if line == "" {
			break
		}
		out = append(out, line)
	}
	return out
}
