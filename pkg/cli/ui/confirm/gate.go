package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// Answer is the operator's decision at a gate.
type Answer int

const (
	// Proceed runs the stage.
	Proceed Answer = iota
	// Skip moves on to the next stage without running this one.
	Skip
	// Quit ends the run without error.
	Quit
)

// String returns the answer name.
func (a Answer) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("Answer(%d)", int(a))
	}
}

// Gate asks yes / no / quit questions between stages.
//
// A non-interactive gate, or one whose stdin is not a terminal, answers Proceed
// without reading input.
type Gate struct {
	writer         io.Writer
	nonInteractive bool
	reader         *bufio.Reader
}

// NewGate creates a gate writing its prompts to writer.
func NewGate(writer io.Writer, nonInteractive bool) *Gate {
	return &Gate{writer: writer, nonInteractive: nonInteractive}
}

// Interactive reports whether Ask will block on operator input.
func (g *Gate) Interactive() bool {
	return !g.nonInteractive && IsTTY()
}

// Ask prompts until a recognised answer is read. Empty input and end of input select
// defaultAnswer.
func (g *Gate) Ask(question string, defaultAnswer Answer) Answer {
	if !g.Interactive() {
		return Proceed
	}

	if g.reader == nil {
		g.reader = bufio.NewReader(getStdinReader())
	}

	prompt := fcolor.New(fcolor.FgCyan, fcolor.Bold)

	for {
		_, err := prompt.Fprintf(g.writer, "? %s %s ", question, hint(defaultAnswer))
		if err != nil {
			return defaultAnswer
		}

		line, err := g.reader.ReadString('\n')
		input := strings.ToLower(strings.TrimSpace(line))

		if input == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				notify.Warningf(g.writer, "failed to read answer: %v", err)
			}

			_, _ = fmt.Fprintln(g.writer)

			return defaultAnswer
		}

		answer, ok := parseAnswer(input)
		if ok {
			return answer
		}

		if err != nil {
			return defaultAnswer
		}

		notify.Warningf(g.writer, "please answer y(es), n(o)/s(kip) or q(uit)")
	}
}

func parseAnswer(input string) (Answer, bool) {
	switch input {
	case "y", "yes":
		return Proceed, true
	case "n", "no", "s", "skip":
		return Skip, true
	case "q", "quit":
		return Quit, true
	default:
		return Proceed, false
	}
}

func hint(defaultAnswer Answer) string {
	switch defaultAnswer {
	case Skip:
		return "[y/N/q]"
	case Quit:
		return "[y/n/Q]"
	default:
		return "[Y/n/q]"
	}
}
