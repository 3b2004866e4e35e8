package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verseforge/verseforge/internal/store"
)

// Decision is the operator's response to a review round.
type Decision int

const (
	// DecisionWrite confirms the batch; every accumulated record is written.
	DecisionWrite Decision = iota
	// DecisionDiscard cancels the run; nothing is written.
	DecisionDiscard
	// DecisionCorrect re-keys one record before another review round.
	DecisionCorrect
)

// Correction re-keys a single record with replacement numeric fields.
type Correction struct {
	TopicID string
	Chapter int
	Verse   int
}

// Interaction gates the final write. The driver calls Review repeatedly until
// it gets a write or discard decision, applying corrections in between. The
// pipeline itself never reads standard input; this is the only interactive
// surface.
type Interaction interface {
	Review(docs []store.Document) (Decision, Correction, error)
}

// AutoApprove writes every batch without asking. Used for non-interactive
// runs (--yes).
type AutoApprove struct{}

func (AutoApprove) Review(docs []store.Document) (Decision, Correction, error) {
	return DecisionWrite, Correction{}, nil
}

// Terminal is the interactive implementation reading operator decisions from
// a terminal.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminal creates a terminal interaction over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

func (t *Terminal) Review(docs []store.Document) (Decision, Correction, error) {
	fmt.Fprintf(t.out, "\n%d record(s) accumulated.\n", len(docs))
	fmt.Fprint(t.out, "Enter a topicId to correct, type 'ok' to upload, or 'cancel' to discard: ")

	line, ok := t.readLine()
	if !ok {
		// Input closed; never write without an explicit confirmation.
		return DecisionDiscard, Correction{}, nil
	}

	switch strings.ToLower(line) {
	case "ok", "yes":
		return DecisionWrite, Correction{}, nil
	case "cancel", "no", "":
		return DecisionDiscard, Correction{}, nil
	}

	corr := Correction{TopicID: line}
	chapter, ok := t.readInt(fmt.Sprintf("Enter new chapter for '%s': ", line))
	if !ok {
		return DecisionDiscard, Correction{}, nil
	}
	verse, ok := t.readInt(fmt.Sprintf("Enter new verse for '%s': ", line))
	if !ok {
		return DecisionDiscard, Correction{}, nil
	}
	corr.Chapter = chapter
	corr.Verse = verse
	return DecisionCorrect, corr, nil
}

func (t *Terminal) readLine() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// readInt re-prompts until the operator enters a valid integer, so a record
// is never re-keyed with unparseable numeric fields.
func (t *Terminal) readInt(prompt string) (int, bool) {
	for {
		fmt.Fprint(t.out, prompt)
		line, ok := t.readLine()
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(t.out, "Invalid number. Please try again.")
			continue
		}
		return n, true
	}
}
