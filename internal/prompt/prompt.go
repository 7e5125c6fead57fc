// Package prompt asks the user for values that were not given as flags.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt or input ends.
var ErrAborted = errors.New("input aborted")

// Prompter reads answers from a terminal form or, when stdin is not a
// terminal, from plain lines.
type Prompter struct {
	interactive bool
	in          *bufio.Reader
	out         io.Writer
}

// New returns a Prompter on the process's stdin and stderr. Forms are used
// only when stdin is a terminal.
func New() *Prompter {
	return &Prompter{
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stderr,
	}
}

// NewLine returns a Prompter that always reads plain lines from in.
func NewLine(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// String asks for a non-empty value.
func (p *Prompter) String(title string) (string, error) {
	return p.ask(title, func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("a value is required")
		}
		return nil
	})
}

// Int asks until the answer parses as an integer.
func (p *Prompter) Int(title string) (int, error) {
	answer, err := p.ask(title, func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return errors.New("please enter a whole number")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

// Confirm asks the user to type word exactly. Any other answer is a
// refusal, not a retry.
func (p *Prompter) Confirm(title, word string) (bool, error) {
	answer, err := p.ask(fmt.Sprintf("%s Type %s to continue:", title, word), nil)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(answer) == word, nil
}

// WaitEnter prints message and blocks until a line is entered.
func (p *Prompter) WaitEnter(message string) error {
	fmt.Fprintln(p.out, message)
	if _, err := p.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (p *Prompter) ask(title string, validate func(string) error) (string, error) {
	if validate == nil {
		validate = func(string) error { return nil }
	}
	if p.interactive {
		var value string
		err := huh.NewInput().
			Title(title).
			Value(&value).
			Validate(validate).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return value, err
	}
	return p.askLine(title, validate)
}

func (p *Prompter) askLine(title string, validate func(string) error) (string, error) {
	for {
		fmt.Fprint(p.out, title+" ")
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		answer := strings.TrimRight(line, "\r\n")
		verr := validate(answer)
		if verr == nil {
			return answer, nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		fmt.Fprintln(p.out, verr)
	}
}
