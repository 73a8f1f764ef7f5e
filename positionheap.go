// Package positionheap implements a full-text substring index over a fixed
// text: one O(n) build, then any number of O(m+k) searches reporting every
// position where a pattern of length m occurs, k being the number of
// occurrences.
package positionheap

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidUTF8 = errors.New("positionheap: invalid UTF-8 encoding in input text")
	ErrTextTooLong = errors.New("positionheap: text length exceeds int32 node id space")
)

type Builder struct {
	text      string
	foldCase  bool
	normalize bool
	logger    *slog.Logger
}

func NewBuilder(text string) *Builder {
	return &Builder{text: text}
}

// Lower-cases the text before indexing; Search lower-cases its pattern the
// same way. Reported positions then index the folded text, whose byte
// offsets can differ from the caller's for non-ASCII input.
func (b *Builder) FoldCase() *Builder {
	b.foldCase = true
	return b
}

// Normalizes the text with NFC before indexing; Search normalizes its
// pattern the same way. Build rejects text that is not valid UTF-8.
func (b *Builder) NormalizeNFC() *Builder {
	b.normalize = true
	return b
}

// Emits Debug-level progress events during the build. The index itself
// never logs; by default the build is silent.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build constructs the index in O(n) time. The builder copies the text, so
// the caller's string is never referenced afterwards. An empty text yields
// an index that matches no non-empty pattern.
func (b *Builder) Build() (*Index, error) {
	if b.normalize && !utf8.ValidString(b.text) {
		return nil, ErrInvalidUTF8
	}
	t := applyTransforms(b.text, b.foldCase, b.normalize)
	if len(t) > math.MaxInt32 {
		return nil, ErrTextTooLong
	}

	x := &Index{foldCase: b.foldCase, normalize: b.normalize}
	n := len(t)
	// Private copy of the text with the indexing order reversed: text[0] is
	// the caller's rightmost byte. All node ids and reported positions use
	// this numbering.
	x.text = make([]byte, n)
	for i := range x.text {
		x.text[i] = t[n-1-i]
	}
	if n > 0 {
		x.construct(b.logger)
	}
	return x, nil
}

// Index is a position heap over a fixed text. It is immutable once built;
// concurrent Search calls are safe.
type Index struct {
	text        []byte  // indexed text, reversed
	firstChild  []int32 // downward tree, noChild-terminated
	nextSibling []int32
	maxReach    []int32 // deepest node whose root path prefixes text[i..0]
	discovery   []int32 // DFS entry stamp
	finishing   []int32 // DFS exit stamp
	foldCase    bool
	normalize   bool
}

func applyTransforms(s string, foldCase, normalize bool) string {
	if foldCase {
		s = strings.ToLower(s)
	}
	if normalize {
		s = norm.NFC.String(s)
	}
	return s
}

// Search returns every position where pattern occurs in the indexed text.
// Positions use the reversed numbering: position 0 is the text's rightmost
// byte, and a reported position is the match's leftmost byte, so the
// familiar left-to-right start is TextLength()-1-h. The returned slice is
// freshly allocated and owned by the caller; its order is unspecified.
// An empty pattern matches at every position.
func (x *Index) Search(pattern string) []int {
	p := []byte(applyTransforms(pattern, x.foldCase, x.normalize))
	if len(x.text) == 0 {
		return nil
	}

	// Positions of X1 if the whole pattern is a root path, otherwise the
	// candidate positions of the maximal prefix X1.
	candidates, pathEndDepth := x.genCandidates(p)
	fellOffTree := int(pathEndDepth) < len(p)

	if !fellOffTree {
		candidates.compact()
		return candidates.positions()
	}

	// The pattern factors as X1 X2 ... Xj with each Xi (i<j) maximal. Prune
	// the X1 candidates against one factor at a time; survivors of the last
	// factor are the occurrences.
	offset := pathEndDepth
	for int(offset) < len(p) && candidates.size() > 0 {
		candidates, offset = x.pruneCandidates(p[offset:], candidates, offset)
	}
	return candidates.positions()
}

// TextLength returns the length in bytes of the indexed text (after any
// builder transforms).
func (x *Index) TextLength() int {
	return len(x.text)
}
