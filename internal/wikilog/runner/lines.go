package runner

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// lineReader yields input lines like bufio.Scanner, except that a line longer
// than max does not stop the read: it is cut to max bytes, flagged, and the
// rest of it is discarded.
type lineReader struct {
	r    *bufio.Reader
	max  int
	line []byte
	long bool
	err  error
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024), max: max}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err reports the latter.
func (lr *lineReader) Next() bool {
	if lr.err != nil {
		return false
	}
	lr.line = lr.line[:0]
	lr.long = false

	read := 0
	for {
		chunk, err := lr.r.ReadSlice('\n')
		read += len(chunk)
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if !lr.long {
			if room := lr.max - len(lr.line); len(chunk) > room {
				lr.line = append(lr.line, chunk[:room]...)
				lr.long = true
			} else {
				lr.line = append(lr.line, chunk...)
			}
		}

		switch {
		case err == nil:
			lr.trimCR()
			return true
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			lr.err = io.EOF
			lr.trimCR()
			return read > 0
		default:
			lr.err = err
			return false
		}
	}
}

func (lr *lineReader) trimCR() {
	if !lr.long {
		lr.line = bytes.TrimSuffix(lr.line, []byte{'\r'})
	}
}

// Text returns the current line, truncated to max bytes when TooLong.
func (lr *lineReader) Text() string { return string(lr.line) }

// TooLong reports whether the current line exceeded max bytes.
func (lr *lineReader) TooLong() bool { return lr.long }

// Err returns the first non-EOF read error.
func (lr *lineReader) Err() error {
	if errors.Is(lr.err, io.EOF) {
		return nil
	}
	return lr.err
}
