package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Console is the terminal implementation of Notifier, Navigator and Confirmer.
type Console struct {
	in        *bufio.Reader
	out       io.Writer
	styled    bool
	assumeYes bool
	inputTTY  bool

	mu   sync.Mutex
	last Destination
}

type ConsoleOption func(*Console)

// WithAssumeYes answers every confirmation with yes (the --yes flag).
func WithAssumeYes(yes bool) ConsoleOption {
	return func(c *Console) {
		c.assumeYes = yes
	}
}

// NewConsole reads answers from in and writes notices to out. Styling and
// interactive confirmation are only enabled for real terminals.
func NewConsole(in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		in:       bufio.NewReader(in),
		out:      out,
		styled:   isTerminal(out),
		inputTTY: isTerminal(in),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *Console) Notify(n Notice) {
	msg := n.Message
	if c.styled {
		switch n.Level {
		case LevelSuccess:
			msg = successStyle.Render(msg)
		case LevelError:
			msg = errorStyle.Render(msg)
		default:
			msg = infoStyle.Render(msg)
		}
	}
	fmt.Fprintln(c.out, msg)
}

func (c *Console) Navigate(to Destination) {
	c.mu.Lock()
	c.last = to
	c.mu.Unlock()

	switch to {
	case DestinationSignIn:
		c.Notify(Notice{Level: LevelInfo, Message: "Run `notes signin` to sign in."})
	case DestinationNotes:
		c.Notify(Notice{Level: LevelInfo, Message: "Run `notes list` to see your notes."})
	}
}

// Destination returns the last view navigated to.
func (c *Console) Destination() Destination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Console) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	if !c.inputTTY {
		c.Notify(Notice{Level: LevelError, Message: "Confirmation required; re-run with --yes."})
		return false
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Prompt writes label and returns the trimmed line the user typed.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
