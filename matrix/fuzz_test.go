package matrix_test

import (
	"strings"
	"testing"

	"github.com/IvanBrykalov/matcache/matrix"
)

// Arbitrary input must never panic ParseText, and anything it accepts must
// survive a Text/ParseText round trip unchanged.
func FuzzParseText(f *testing.F) {
	f.Add("[1 2]\n[3 4]")
	f.Add("[]")
	f.Add("[2.0 -1e-05 inf]")
	f.Add("[nan]")
	f.Add("[1 2]\n[3]")
	f.Add(strings.Repeat("[1 2 3]\n", 16))

	f.Fuzz(func(t *testing.T, s string) {
		const limit = 1 << 12
		if len(s) > limit {
			s = s[:limit]
		}
		m, err := matrix.ParseText(s)
		if err != nil {
			return
		}
		text := m.Text()
		back, err := matrix.ParseText(text)
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", text, err)
		}
		if back.Text() != text {
			t.Fatalf("round trip changed text: %q -> %q", text, back.Text())
		}
		// hashing must not panic either
		_, _ = m.Hash()
	})
}
