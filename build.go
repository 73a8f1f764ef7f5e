package positionheap

import "log/slog"

const (
	root    int32 = 0
	noChild int32 = -1
)

// progressInterval is how often the optional build logger reports.
const progressInterval = 1 << 20

// construct builds the heap for a non-empty text. Node i corresponds to
// text position i; node 0 is the root and names the empty string.
//
// The build keeps two trees at once: the primal heap as an upward parent
// array, and its dual (each node's name reversed) in the child/sibling
// arrays. Climbs happen in the primal while child lookups happen in the
// dual. Once the maximal-reach pointers are installed the dual is
// discarded, the child/sibling arrays are rebuilt to hold the primal
// downward, and the parent array is released.
func (x *Index) construct(logger *slog.Logger) {
	n := int32(len(x.text))
	x.firstChild = newNodeArray(n)
	x.nextSibling = newNodeArray(n)
	x.maxReach = make([]int32, n)
	parent := make([]int32, n)

	x.buildTrees(parent, logger)
	x.installMaxReaches(parent, logger)

	// Re-point the child/sibling arrays from the dual to the primal.
	for i := range x.firstChild {
		x.firstChild[i] = noChild
		x.nextSibling[i] = noChild
	}
	for i := int32(1); i < n; i++ {
		x.insertChild(i, parent[i])
	}
	// parent is dead from here on; only construct ever holds it.

	x.assignTimes()

	if logger != nil {
		logger.Debug("position heap built", "positions", n)
	}
}

func newNodeArray(n int32) []int32 {
	a := make([]int32, n)
	for i := range a {
		a[i] = noChild
	}
	return a
}

// buildTrees adds nodes 1..n-1 in order, growing the primal heap in parent
// and the dual heap in the child/sibling arrays.
func (x *Index) buildTrees(parent []int32, logger *slog.Logger) {
	var pathNode int32
	for i := int32(1); i < int32(len(x.text)); i++ {
		if logger != nil && i%progressInterval == 0 {
			logger.Debug("building position heap", "position", i)
		}
		c := x.text[i]

		if x.childOnLetter(root, 0, c) == noChild {
			parent[i] = root
			x.insertChild(i, root)
			pathNode = i
			continue
		}

		// Climb the primal from the most recently added node until an
		// ancestor has a dual child on c. That child names the longest
		// prefix of text[i..0] already in the heap, so the new node hangs
		// below it in the primal. In the dual the new node hangs below the
		// highest node seen on the climb that still lacks a c-child.
		node := pathNode
		var prev, child int32
		for {
			prev = node
			node = parent[node]
			child = x.childOnLetter(node, 0, c)
			if child != noChild {
				break
			}
		}
		parent[i] = child
		x.insertChild(i, prev)
		pathNode = i
	}
}

// installMaxReaches fills maxReach for every node: the deepest node whose
// primal root path is a prefix of text[i..0]. The climb mirrors buildTrees
// and is amortized O(1) per position by the same potential argument on the
// depth of pathNode. The child/sibling arrays still hold the dual here: a
// dual child on c sits exactly one character deeper along text[i..0] in
// the primal, so following dual children walks down those prefixes.
func (x *Index) installMaxReaches(parent []int32, logger *slog.Logger) {
	pathNode, _ := x.indexIntoTrie(x.text[:1])
	x.maxReach[root] = pathNode
	for i := int32(1); i < int32(len(x.text)); i++ {
		if logger != nil && i%progressInterval == 0 {
			logger.Debug("installing maximal-reach pointers", "position", i)
		}
		c := x.text[i]
		child := x.childOnLetter(pathNode, 0, c)
		for child == noChild {
			pathNode = parent[pathNode]
			child = x.childOnLetter(pathNode, 0, c)
		}
		pathNode = child
		x.maxReach[i] = pathNode
	}
}

// insertChild links child at the front of parent's child list. Siblings
// end up in reverse insertion order; nothing relies on more than that.
func (x *Index) insertChild(child, parent int32) {
	x.nextSibling[child] = x.firstChild[parent]
	x.firstChild[parent] = child
}

// childOnLetter scans node's children for the one whose edge label is c,
// returning noChild if there is none. nodeDepth is node's depth; the label
// of child c' is text[c'-nodeDepth]. Sibling labels are distinct, so at
// most one child matches.
func (x *Index) childOnLetter(node, nodeDepth int32, c byte) int32 {
	child := x.firstChild[node]
	for child != noChild && x.text[child-nodeDepth] != c {
		child = x.nextSibling[child]
	}
	return child
}

// assignTimes stamps every node with DFS discovery and finishing times
// from one shared counter. Ancestry then reduces to interval containment,
// which is what isDescendant tests. The traversal uses an explicit stack;
// a single-letter text degenerates to a path of depth n.
func (x *Index) assignTimes() {
	n := len(x.text)
	x.discovery = make([]int32, n)
	x.finishing = make([]int32, n)

	type frame struct {
		node  int32
		child int32 // next child to visit
	}
	stack := make([]frame, 0, 64)
	var clock int32

	x.discovery[root] = clock
	clock++
	stack = append(stack, frame{root, x.firstChild[root]})
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.child == noChild {
			x.finishing[top.node] = clock
			clock++
			stack = stack[:len(stack)-1]
			continue
		}
		c := top.child
		top.child = x.nextSibling[c]
		x.discovery[c] = clock
		clock++
		stack = append(stack, frame{c, x.firstChild[c]})
	}
}
