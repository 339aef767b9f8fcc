package tableio

import (
	"bufio"
	"io"
	"strings"
)

// escapeReader rewrites quotes escaped with a backslash-like escape character
// (\") into the doubled quotes ("") that encoding/csv understands. It works
// line by line so that quoted fields spanning lines are left intact.
type escapeReader struct {
	r        *bufio.Reader
	escaped  string
	leftover *strings.Reader
	err      error
}

func newEscapeReader(r io.Reader, escape rune) io.Reader {
	if escape == 0 {
		return r
	}

	return &escapeReader{
		r:        bufio.NewReader(r),
		escaped:  string(escape) + `"`,
		leftover: strings.NewReader(""),
	}
}

func (m *escapeReader) Read(p []byte) (int, error) {
	for m.leftover.Len() == 0 {
		if m.err != nil {
			return 0, m.err
		}

		var line string
		line, m.err = m.r.ReadString('\n')
		m.leftover = strings.NewReader(strings.ReplaceAll(line, m.escaped, `""`))
	}

	return m.leftover.Read(p)
}
