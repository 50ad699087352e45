package matrix

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"os"
	"strings"
)

// Saver persists a value as a text artifact.
type Saver interface {
	Save(path string) error
}

var (
	_ encoding.TextMarshaler = (*Matrix)(nil)
	_ io.WriterTo            = (*Matrix)(nil)
	_ fmt.Stringer           = (*Matrix)(nil)
)

// Text renders the canonical dump: one "[v1 v2 ... vn]" line per row,
// rows joined by '\n', no trailing newline. The output is stable, so two
// matrices are equal by inspection when their texts are equal.
func (m *Matrix) Text() string {
	var b strings.Builder
	m.appendText(&b)
	return b.String()
}

// String returns Text().
func (m *Matrix) String() string { return m.Text() }

// MarshalText implements encoding.TextMarshaler.
func (m *Matrix) MarshalText() ([]byte, error) {
	var b bytes.Buffer
	m.appendText(&b)
	return b.Bytes(), nil
}

// WriteTo writes Text() to w.
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.Text())
	return int64(n), err
}

// Save writes Text() to path, creating or truncating the file.
func (m *Matrix) Save(path string) error {
	if err := os.WriteFile(path, []byte(m.Text()), 0o644); err != nil {
		return fmt.Errorf("Matrix.Save: %w", err)
	}
	return nil
}

type textWriter interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

func (m *Matrix) appendText(w textWriter) {
	for i := 0; i < m.r; i++ {
		if i > 0 {
			_ = w.WriteByte('\n')
		}
		_ = w.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				_ = w.WriteByte(' ')
			}
			_, _ = w.WriteString(m.data[i*m.c+j].String())
		}
		_ = w.WriteByte(']')
	}
}

// ParseText is the inverse of Text. Tokens that parse as base-10 integers
// become Int elements, everything else must parse as a float. A single
// trailing newline is tolerated so files written by other tools load too.
//
// Errors: ErrType for a line without brackets or an unparsable token,
// ErrShape for an empty input or ragged rows.
func ParseText(s string) (*Matrix, error) {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, fmt.Errorf("matrix.ParseText: %w", ErrShape)
	}
	lines := strings.Split(s, "\n")
	table := make([][]Number, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			return nil, fmt.Errorf("matrix.ParseText: line %d: missing brackets: %w", i+1, ErrType)
		}
		fields := strings.Fields(line[1 : len(line)-1])
		row := make([]Number, len(fields))
		for j, tok := range fields {
			n, ok := parseNumber(tok)
			if !ok {
				return nil, fmt.Errorf("matrix.ParseText: line %d: token %q: %w", i+1, tok, ErrType)
			}
			row[j] = n
		}
		table[i] = row
	}
	m, err := New(table)
	if err != nil {
		return nil, fmt.Errorf("matrix.ParseText: %w", err)
	}
	return m, nil
}

// Load reads a text dump written by Save.
func Load(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matrix.Load: %w", err)
	}
	return ParseText(string(raw))
}
