package ingest

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// maxPendingLine bounds a partial line held across reads. A longer run
// without a newline is noise and is dropped.
const maxPendingLine = 4096

// LineSource yields raw transport lines. A nil line with a nil error
// means the read timed out with no complete line available.
type LineSource interface {
	ReadLine() ([]byte, error)
}

// LineReader frames a byte stream into newline-terminated lines. Bytes
// of a line interrupted by a read timeout are kept for the next call.
type LineReader struct {
	r       io.Reader
	pending []byte
	chunk   []byte
	err     error
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:     r,
		chunk: make([]byte, 512),
	}
}

// ReadLine returns the next line without its terminator. It blocks for at
// most one read of the underlying transport once no complete line is
// buffered. After the transport fails, buffered lines are still returned
// before the error.
func (lr *LineReader) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(lr.pending, '\n'); i >= 0 {
			line := bytes.Clone(lr.pending[:i])
			lr.pending = lr.pending[i+1:]
			return line, nil
		}
		if lr.err != nil {
			if len(lr.pending) > 0 {
				line := bytes.Clone(lr.pending)
				lr.pending = nil
				return line, nil
			}
			return nil, lr.err
		}
		if len(lr.pending) > maxPendingLine {
			lr.pending = lr.pending[:0]
		}

		n, err := lr.r.Read(lr.chunk)
		lr.pending = append(lr.pending, lr.chunk[:n]...)
		if err != nil {
			lr.err = err
			continue
		}
		if n == 0 {
			return nil, nil
		}
	}
}

// Decode turns a raw line into text. Invalid UTF-8 is replaced with
// U+FFFD and surrounding whitespace, including any '\r', is trimmed.
func Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.TrimSpace(strings.ToValidUTF8(string(raw), "\uFFFD"))
	}
	return strings.TrimSpace(string(text))
}
