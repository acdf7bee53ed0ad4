// Package prompt reads line answers for the interactive commands.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
	// echo writes the answer back when the input is not a terminal, so
	// piped runs still show what was answered.
	echo bool
}

func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, echo: !interactive}
}

// NewStdio prompts on stdout and reads stdin.
func NewStdio() *Prompter {
	return New(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// Ask prints question and returns the trimmed answer. EOF yields "".
func (p *Prompter) Ask(question string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return ""
	}
	answer := strings.TrimSpace(line)
	if p.echo {
		fmt.Fprintln(p.out, answer)
	}
	return answer
}

// Confirm asks a y/n question; only "y" or "yes" count as yes.
func (p *Prompter) Confirm(question string) bool {
	switch strings.ToLower(p.Ask(question + " (y/n): ")) {
	case "y", "yes":
		return true
	}
	return false
}
