package positionheap

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveSearch is the oracle: scan the text directly and report matches in
// the index's reversed numbering (position of the match's leftmost byte,
// counted from the right end of the text).
func naiveSearch(text, pattern string) []int {
	n, m := len(text), len(pattern)
	if n == 0 {
		return nil
	}
	var res []int
	if m == 0 {
		for h := 0; h < n; h++ {
			res = append(res, h)
		}
		return res
	}
	for s := 0; s+m <= n; s++ {
		if text[s:s+m] == pattern {
			res = append(res, n-1-s)
		}
	}
	return res
}

func buildRaw(t *testing.T, text string) *Index {
	t.Helper()
	idx, err := NewBuilder(text).Build()
	require.NoError(t, err)
	return idx
}

func TestSearchScenarios(t *testing.T) {
	tests := []struct {
		text    string
		pattern string
		starts  []int // left-to-right start positions
	}{
		{"abracadabra", "abra", []int{0, 7}},
		{"abracadabra", "a", []int{0, 3, 5, 7, 10}},
		{"abracadabra", "cad", []int{4}},
		{"abracadabra", "abracadabra", []int{0}},
		{"aaaa", "aa", []int{0, 1, 2}},
		{"aaaa", "aaaaa", nil},
		{"mississippi", "issi", []int{1, 4}},
		{"mississippi", "ssippix", nil},
		{"mississippi", "i", []int{1, 4, 7, 10}},
		{"", "a", nil},
		{"a", "a", []int{0}},
		{"ab", "ab", []int{0}},
		{"ab", "b", []int{1}},
		{"abc", "x", nil},
	}

	for _, tc := range tests {
		t.Run(tc.text+"/"+tc.pattern, func(t *testing.T) {
			idx := buildRaw(t, tc.text)
			want := make([]int, 0, len(tc.starts))
			for _, s := range tc.starts {
				want = append(want, len(tc.text)-1-s)
			}
			assert.ElementsMatch(t, want, idx.Search(tc.pattern))
		})
	}
}

func TestEmptyPattern(t *testing.T) {
	idx := buildRaw(t, "abracadabra")
	want := make([]int, 0, 11)
	for h := 0; h < 11; h++ {
		want = append(want, h)
	}
	assert.ElementsMatch(t, want, idx.Search(""))

	empty := buildRaw(t, "")
	assert.Empty(t, empty.Search(""))
	assert.Empty(t, empty.Search("a"))
	assert.Equal(t, 0, empty.TextLength())
}

// Every suffix of the text must find its own left end.
func TestSelfSearch(t *testing.T) {
	texts := []string{
		"a",
		"ab",
		"aaaaaaaa",
		"abracadabra",
		"mississippi",
		"abcabcabcabc",
		"zyxwvu",
	}
	for _, text := range texts {
		idx := buildRaw(t, text)
		n := len(text)
		for s := 0; s < n; s++ {
			got := idx.Search(text[s:])
			assert.Contains(t, got, n-1-s, "text %q suffix %q", text, text[s:])
		}
	}
}

func TestSearchAgainstOracle(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	alphabets := []string{"a", "ab", "abc", "abcdefgh"}
	for _, alpha := range alphabets {
		t.Run(alpha, func(t *testing.T) {
			for iter := 0; iter < 30; iter++ {
				n := r.Intn(120) + 1
				var sb strings.Builder
				for i := 0; i < n; i++ {
					sb.WriteByte(alpha[r.Intn(len(alpha))])
				}
				text := sb.String()
				idx := buildRaw(t, text)

				for q := 0; q < 20; q++ {
					var pattern string
					if q%2 == 0 && n > 1 {
						// sample a substring so matches are common
						s := r.Intn(n)
						e := s + r.Intn(n-s) + 1
						pattern = text[s:e]
					} else {
						m := r.Intn(6) + 1
						var pb strings.Builder
						for i := 0; i < m; i++ {
							pb.WriteByte(alpha[r.Intn(len(alpha))])
						}
						pattern = pb.String()
					}
					want := naiveSearch(text, pattern)
					got := idx.Search(pattern)
					require.ElementsMatch(t, want, got,
						"text %q pattern %q", text, pattern)
				}
			}
		})
	}
}

func TestFoldCase(t *testing.T) {
	idx, err := NewBuilder("AbraCadabra").FoldCase().Build()
	require.NoError(t, err)
	want := naiveSearch("abracadabra", "abra")
	assert.ElementsMatch(t, want, idx.Search("ABRA"))
	assert.ElementsMatch(t, want, idx.Search("abra"))
}

func TestNormalizeNFC(t *testing.T) {
	// Decomposed e + combining acute normalizes to the composed form, so
	// either spelling of the pattern finds the other.
	idx, err := NewBuilder("cafe\u0301 crema").NormalizeNFC().Build()
	require.NoError(t, err)
	assert.NotEmpty(t, idx.Search("caf\u00e9"))
	assert.NotEmpty(t, idx.Search("cafe\u0301"))
	assert.Equal(t, len("caf\u00e9 crema"), idx.TextLength())
}

func TestInvalidUTF8(t *testing.T) {
	_, err := NewBuilder(string([]byte{0xff, 0xfe})).NormalizeNFC().Build()
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	// Without normalization arbitrary bytes are fine.
	idx, err := NewBuilder(string([]byte{0xff, 0xfe, 0xff})).Build()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 2}, idx.Search(string([]byte{0xff})))
}

func TestSearchDoesNotMutateIndex(t *testing.T) {
	idx := buildRaw(t, "mississippi")
	first := idx.Search("ssi")
	for i := 0; i < 5; i++ {
		assert.ElementsMatch(t, first, idx.Search("ssi"))
	}
}

func FuzzSearch(f *testing.F) {
	f.Add("abracadabra", "abra")
	f.Add("mississippi", "issi")
	f.Add("aaaa", "aa")
	f.Add("", "")
	f.Add("ab", "b")

	f.Fuzz(func(t *testing.T, text, pattern string) {
		if len(text) > 1000 || len(pattern) > 100 {
			return
		}
		idx, err := NewBuilder(text).Build()
		if err != nil {
			return
		}
		got := idx.Search(pattern)
		want := naiveSearch(text, pattern)
		assert.ElementsMatch(t, want, got, "text %q pattern %q", text, pattern)
	})
}

func randomText(n int, alpha string, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alpha[r.Intn(len(alpha))])
	}
	return sb.String()
}

func BenchmarkBuild(b *testing.B) {
	text := randomText(1<<17, "abcd", 7)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewBuilder(text).Build(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	text := randomText(1<<17, "abcd", 7)
	idx, err := NewBuilder(text).Build()
	if err != nil {
		b.Fatal(err)
	}
	patterns := make([]string, 64)
	r := rand.New(rand.NewSource(11))
	for i := range patterns {
		s := r.Intn(len(text) - 8)
		patterns[i] = text[s : s+8]
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Search(patterns[i%len(patterns)])
	}
}
