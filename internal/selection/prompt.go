package selection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"adbuild/internal/network"
)

// ErrNoMoreAnswers is returned by Scripted once its answers are used up.
var ErrNoMoreAnswers = errors.New("no more scripted answers")

// InputProvider asks the user a question and returns the answer line.
type InputProvider interface {
	Ask(prompt string) (string, error)
}

// LineReader reads answers line by line, echoing prompts to Writer.
type LineReader struct {
	Reader *bufio.Reader
	Writer io.Writer
}

// NewLineReader wraps r and w.
func NewLineReader(r io.Reader, w io.Writer) *LineReader {
	return &LineReader{Reader: bufio.NewReader(r), Writer: w}
}

// Ask prints prompt and reads one line. A final line without newline is accepted.
func (l *LineReader) Ask(prompt string) (string, error) {
	fmt.Fprint(l.Writer, prompt)
	input, err := l.Reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Scripted answers from a fixed list, in order.
type Scripted struct {
	Answers []string
	next    int
}

// Ask returns the next answer.
func (s *Scripted) Ask(string) (string, error) {
	if s.next >= len(s.Answers) {
		return "", ErrNoMoreAnswers
	}
	a := s.Answers[s.next]
	s.next++
	return a, nil
}

// PrintMenu writes the numbered catalog and the selection help.
func PrintMenu(w io.Writer, catalog *network.Catalog) {
	fmt.Fprintln(w, "\nAvailable ad networks:")
	for i, id := range catalog.IDs() {
		fmt.Fprintf(w, "%d. %s\n", i+1, id)
	}
	fmt.Fprintln(w, "\nYou can select networks by:")
	fmt.Fprintln(w, "- Entering numbers separated by commas (e.g., 1,3,5)")
	fmt.Fprintln(w, `- Entering "all" to build all networks`)
	fmt.Fprintln(w, "- Entering network names separated by commas (e.g., facebook,google,unity)")
}

// Session holds the two answers collected before a batch starts.
type Session struct {
	Prefix   string
	Networks []string
}

// AskPrefix returns prefix, asking for it when empty.
func AskPrefix(in InputProvider, prefix string) (string, error) {
	if prefix != "" {
		return prefix, nil
	}
	return in.Ask("Enter the project name prefix: ")
}

// AskNetworks resolves selection, printing the menu and asking for it when empty.
func AskNetworks(in InputProvider, w io.Writer, catalog *network.Catalog, selection string) ([]string, error) {
	if selection == "" {
		PrintMenu(w, catalog)
		var err error
		selection, err = in.Ask("\nSelect networks to build: ")
		if err != nil {
			return nil, err
		}
	}
	return Resolve(catalog, selection)
}

// Prompt asks for the prefix and then the selection and resolves it.
// A non-empty prefix or selection skips the matching question.
func Prompt(in InputProvider, w io.Writer, catalog *network.Catalog, prefix, selection string) (*Session, error) {
	prefix, err := AskPrefix(in, prefix)
	if err != nil {
		return nil, err
	}
	networks, err := AskNetworks(in, w, catalog, selection)
	if err != nil {
		return nil, err
	}
	return &Session{Prefix: prefix, Networks: networks}, nil
}
