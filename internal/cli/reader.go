package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader reads lines from a terminal or pipe and gives up when
// the context is canceled, so Ctrl+C is not stuck behind a prompt.
type NonBlockingReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewNonBlockingReader wraps r.
func NewNonBlockingReader(r io.Reader) *NonBlockingReader {
	return &NonBlockingReader{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line without surrounding whitespace. A last
// line without a newline is returned as is; io.EOF is reported only when
// nothing was read. A canceled context returns ErrInputCancelled while the
// pending read finishes in the background.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err  error
		line string
	}
	ch := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		line, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- result{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-ch:
		return res.line, res.err
	}
}

// Confirm writes prompt to w and reads one answer. Only s/sim/y/yes count as
// yes; EOF counts as no.
func Confirm(ctx context.Context, r *NonBlockingReader, w io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(w, FormatPrompt(prompt+" (y/N)")); err != nil {
		return false, err
	}

	answer, err := r.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
