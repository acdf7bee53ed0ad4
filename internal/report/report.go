// Package report renders user-facing command output with state colours.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"example/imagebatch/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Printer is safe for concurrent use; upload workers share one.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	red    lipgloss.Style
	green  lipgloss.Style
	yellow lipgloss.Style
	blue   lipgloss.Style
	orange lipgloss.Style
	bold   lipgloss.Style
}

func New(out io.Writer) *Printer {
	return newPrinter(out, lipgloss.NewRenderer(out))
}

func NewStdout() *Printer {
	return New(os.Stdout)
}

// NewWithProfile forces a colour profile; termenv.Ascii disables styling.
func NewWithProfile(out io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)
	return newPrinter(out, r)
}

func newPrinter(out io.Writer, r *lipgloss.Renderer) *Printer {
	return &Printer{
		out:    out,
		red:    r.NewStyle().Foreground(lipgloss.Color("9")),
		green:  r.NewStyle().Foreground(lipgloss.Color("10")),
		yellow: r.NewStyle().Foreground(lipgloss.Color("11")),
		blue:   r.NewStyle().Foreground(lipgloss.Color("12")),
		orange: r.NewStyle().Foreground(lipgloss.Color("208")),
		bold:   r.NewStyle().Bold(true),
	}
}

func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.Println(p.yellow.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.Println(p.red.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Successf(format string, args ...any) {
	p.Println(p.green.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Rule(width int) {
	p.Println(strings.Repeat("-", width))
}

func (p *Printer) Green(s string) string  { return p.green.Render(s) }
func (p *Printer) Red(s string) string    { return p.red.Render(s) }
func (p *Printer) Blue(s string) string   { return p.blue.Render(s) }
func (p *Printer) Bold(s string) string   { return p.bold.Render(s) }
func (p *Printer) Orange(s string) string { return p.orange.Render(s) }

// State colours running jobs green and waiting jobs orange.
func (p *Printer) State(s model.JobState) string {
	switch s {
	case model.JobStateRunning, model.JobStateSucceeded:
		return p.green.Render(string(s))
	case model.JobStatePending, model.JobStateQueued:
		return p.orange.Render(string(s))
	case model.JobStateFailed, model.JobStateExpired:
		return p.red.Render(string(s))
	}
	return string(s)
}
