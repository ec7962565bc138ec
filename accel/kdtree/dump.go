package kdtree

import (
	"bufio"
	"fmt"
	"io"
)

// Visit every leaf in below-then-above order.
func (t *Tree) WalkLeaves(fn func(leaf *Node, depth int)) {
	if t.root == nil {
		return
	}
	t.root.walkLeaves(0, fn)
}

// Write the primitive listing of every leaf to w. Empty leaves report their
// extent instead. The output is meant for debugging and has no stable format.
func (t *Tree) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if t.root == nil {
		fmt.Fprintln(bw, "empty tree")
		return bw.Flush()
	}

	leafIndex := 0
	t.root.walkLeaves(0, func(leaf *Node, depth int) {
		fmt.Fprintf(bw, "leaf %d (depth %d) %v: ", leafIndex, depth, leaf.Bound)
		if len(leaf.Primitives) == 0 {
			fmt.Fprintf(bw, "no primitive in this leaf; extent %v\n", leaf.Bound.Diagonal())
		} else {
			for i, index := range leaf.Primitives {
				if i > 0 {
					bw.WriteByte('\t')
				}
				fmt.Fprint(bw, index)
			}
			bw.WriteByte('\n')
		}
		leafIndex++
	})
	return bw.Flush()
}

// Write the split planes in depth-first order, indented by depth.
func (t *Tree) DumpSplits(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if t.root != nil {
		dumpSplits(bw, t.root, 0)
	}
	return bw.Flush()
}

func dumpSplits(w *bufio.Writer, node *Node, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString("  ")
	}
	if node.leaf {
		fmt.Fprintf(w, "leaf: %d primitives\n", len(node.Primitives))
		return
	}
	fmt.Fprintf(w, "split %v at %.4f\n", node.Axis, node.Split)
	dumpSplits(w, node.Below, depth+1)
	dumpSplits(w, node.Above, depth+1)
}

