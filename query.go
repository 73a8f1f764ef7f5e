package positionheap

// invalid marks a posList slot that compact removes.
const invalid int32 = -1

// posList is an ordered, appendable sequence of positions. Search results
// and the candidate lists built during pruning live in one of these.
type posList struct {
	vals []int32
}

func (l *posList) add(v int32) {
	l.vals = append(l.vals, v)
}

func (l *posList) size() int {
	return len(l.vals)
}

func (l *posList) get(i int) int32 {
	return l.vals[i]
}

// compact removes slots holding the invalid marker, keeping order.
func (l *posList) compact() {
	w := 0
	for _, v := range l.vals {
		if v != invalid {
			l.vals[w] = v
			w++
		}
	}
	l.vals = l.vals[:w]
}

// positions hands the list to the caller as a plain slice.
func (l *posList) positions() []int {
	if len(l.vals) == 0 {
		return nil
	}
	out := make([]int, len(l.vals))
	for i, v := range l.vals {
		out[i] = int(v)
	}
	return out
}

// indexIntoTrie walks from the root matching p[0], p[1], ... against edge
// labels as far as possible. It returns the last node reached and its
// depth, which is the length of the longest prefix of p that is a root
// path. For an empty p it returns the root at depth 0.
func (x *Index) indexIntoTrie(p []byte) (node, depth int32) {
	node = root
	for int(depth) < len(p) {
		child := x.childOnLetter(node, depth, p[depth])
		if child == noChild {
			return node, depth
		}
		node = child
		depth++
	}
	return node, depth
}

// pathOccurrences re-walks the indexing path for p and collects the proper
// ancestors of pathEndNode whose maximal reach lands inside pathEndNode's
// subtree. Those ancestors are exactly the shallow positions where the
// path string occurs.
func (x *Index) pathOccurrences(p []byte, pathEndNode int32) *posList {
	occurrences := &posList{}
	node := root
	for depth := int32(0); node != pathEndNode; depth++ {
		if x.isDescendant(x.maxReach[node], pathEndNode) {
			occurrences.add(node)
		}
		node = x.childOnLetter(node, depth, p[depth])
	}
	return occurrences
}

// appendSubtreeOccurrences appends node and every descendant to list,
// using an explicit stack rather than recursing down what may be a depth-n
// path.
func (x *Index) appendSubtreeOccurrences(node int32, list *posList) {
	stack := make([]int32, 0, 64)
	stack = append(stack, node)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		list.add(v)
		for c := x.firstChild[v]; c != noChild; c = x.nextSibling[c] {
			stack = append(stack, c)
		}
	}
}

// genCandidates indexes as far as possible on p. If the whole pattern is a
// root path, the returned list holds its exact occurrences: ancestors of
// the path end that reach into its subtree, plus the path end's own
// subtree. Otherwise the maximal prefix X1 ends at pathEndNode, and the
// list holds X1's candidate positions: the reaching ancestors plus
// pathEndNode itself. The returned depth is |X1|.
func (x *Index) genCandidates(p []byte) (*posList, int32) {
	pathEndNode, pathEndDepth := x.indexIntoTrie(p)
	candidates := x.pathOccurrences(p, pathEndNode)
	if int(pathEndDepth) == len(p) {
		x.appendSubtreeOccurrences(pathEndNode, candidates)
	} else {
		// pathEndNode is a non-proper ancestor of itself and an occurrence
		// of X1, so it is a candidate too.
		candidates.add(pathEndNode)
	}
	return candidates, pathEndDepth
}

// pruneCandidates handles one factor of the decomposition. suffix is
// Xi Xi+1 ... Xj of the reversed-numbering pattern, candidates holds the
// positions that survived the factors before Xi, and offset is
// |X1...Xi-1|. A candidate h survives if position h-offset matches Xi:
// for i < j it must be a candidate of Xi (an ancestor of Xi's end node
// reaching into its subtree); for the final factor a descendant of the
// end node is an occurrence outright and survives as well. Returns the
// new list and the offset advanced by |Xi|.
func (x *Index) pruneCandidates(suffix []byte, candidates *posList, offset int32) (*posList, int32) {
	pathEndNode, pathEndDepth := x.indexIntoTrie(suffix)
	fellOffTree := int(pathEndDepth) < len(suffix)

	next := &posList{}
	if pathEndDepth == 0 {
		// The factor's first character has no edge at the root, so it
		// occurs at no position other than 0. The pattern can still end at
		// position 0 itself when the remaining factor is exactly that
		// character.
		if len(suffix) == 1 && suffix[0] == x.text[0] {
			for i := 0; i < candidates.size(); i++ {
				if candidates.get(i) == offset {
					next.add(offset)
				}
			}
			return next, offset + 1
		}
		// Character absent from the text: no occurrences, and the caller's
		// loop ends on the empty list.
		return next, offset
	}

	for i := 0; i < candidates.size(); i++ {
		h := candidates.get(i)
		w := h - offset
		if w < 0 {
			// Ran off the right-hand end of the text.
			continue
		}
		if (x.isDescendant(pathEndNode, w) && x.isDescendant(x.maxReach[w], pathEndNode)) ||
			(!fellOffTree && x.isDescendant(w, pathEndNode)) {
			next.add(h)
		}
	}
	return next, offset + pathEndDepth
}

// isDescendant reports whether a is a (not necessarily proper) descendant
// of b. With one DFS clock, a lies in b's subtree exactly when a's
// discovery/finishing interval nests inside b's.
func (x *Index) isDescendant(a, b int32) bool {
	return x.discovery[a] >= x.discovery[b] && x.finishing[a] <= x.finishing[b]
}
