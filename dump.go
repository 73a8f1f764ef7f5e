package positionheap

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented preorder rendering of the tree to w: per node
// its id, depth, maximal reach, and discovery/finishing times, with
// children keyed by edge label. Debugging aid only; the format is not
// stable.
func (x *Index) Dump(w io.Writer) {
	if len(x.text) == 0 {
		fmt.Fprintln(w, "empty index")
		return
	}

	type frame struct {
		node  int32
		depth int32
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fmt.Fprintf(w, "%snode %d depth %d maxReach %d discovery %d finishing %d children:",
			strings.Repeat(" ", int(f.depth)), f.node, f.depth,
			x.maxReach[f.node], x.discovery[f.node], x.finishing[f.node])
		for c := x.firstChild[f.node]; c != noChild; c = x.nextSibling[c] {
			fmt.Fprintf(w, " (%q,%d)", x.text[c-f.depth], c)
		}
		fmt.Fprintln(w)

		// Push children reversed so the dump reads in child-list order.
		var children []frame
		for c := x.firstChild[f.node]; c != noChild; c = x.nextSibling[c] {
			children = append(children, frame{c, f.depth + 1})
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}
