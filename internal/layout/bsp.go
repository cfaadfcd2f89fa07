package layout

import (
	"slices"

	"github.com/1broseidon/tilecore/internal/stack"
)

const defaultSplit = 0.5

type bspNode struct {
	parent int
	left   int
	right  int
	axis   Axis
	ratio  float64
	// slot is the leaf's position in stack order; -1 on split nodes.
	slot int
}

func (n bspNode) leaf() bool { return n.left < 0 }

// BinarySpacePartition recursively splits the screen following a binary
// tree whose leaves are window slots.
//
// Nodes live in an arena and refer to each other by index. The tree is
// rebuilt from scratch whenever the set of windows differs from the one it
// was built for.
type BinarySpacePartition struct {
	ratios  Ratios
	nodes   []bspNode
	root    int
	windows []stack.Window
}

// NewBSP returns an empty BSP layout; its tree is built on first use.
func NewBSP(ratios Ratios) *BinarySpacePartition {
	return &BinarySpacePartition{ratios: ratios, root: -1}
}

func (b *BinarySpacePartition) Apply(_ Env, s *stack.Stack, screen Rect) []Placement {
	ws := windowsOf(s)
	if len(ws) == 0 {
		return nil
	}

	t := b
	if !b.matches(ws) {
		t = b.rebuilt(ws)
	}
	rects := make([]Rect, len(ws))
	t.place(t.root, screen, rects)

	out := make([]Placement, len(ws))
	for i, w := range ws {
		out[i] = Placement{Window: w, Rect: rects[i], BorderWidth: InheritBorder}
	}
	return out
}

func (b *BinarySpacePartition) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	ws := windowsOf(s)
	if len(ws) == 0 {
		return b, false
	}

	var t *BinarySpacePartition
	if b.matches(ws) {
		t = b.clone()
	} else {
		t = b.rebuilt(ws)
	}
	t.windows = slices.Clone(ws)
	focused := t.leafFor(s.Index())

	var ok bool
	switch msg.Kind {
	case TreeRotate:
		ok = t.rotate(focused)
	case TreeSwap:
		ok = t.swap(focused)
	case TreeExpandTowards:
		ok = t.resize(focused, msg.Dir.Axis(), 1)
	case TreeShrinkFrom:
		ok = t.resize(focused, msg.Dir.Axis(), -1)
	case Increase:
		ok = t.adjustRoot(1)
	case Decrease:
		ok = t.adjustRoot(-1)
	}
	if !ok {
		return b, false
	}
	return t, true
}

func (b *BinarySpacePartition) Description() string { return "BSP" }

func (b *BinarySpacePartition) Copy() Layout { return b.clone() }

func (b *BinarySpacePartition) Spec() Spec {
	spec := Spec{Type: TypeBSP}
	if b.root >= 0 {
		spec.Tree = b.treeSpec(b.root)
	}
	return spec
}

func (b *BinarySpacePartition) clone() *BinarySpacePartition {
	return &BinarySpacePartition{
		ratios:  b.ratios,
		nodes:   slices.Clone(b.nodes),
		root:    b.root,
		windows: slices.Clone(b.windows),
	}
}

// matches reports whether the current tree was built for the window set ws.
// A restored tree that has not seen any windows yet matches any set of the
// same size.
func (b *BinarySpacePartition) matches(ws []stack.Window) bool {
	if b.root < 0 || b.leafCount() != len(ws) {
		return false
	}
	if b.windows == nil {
		return true
	}
	if len(b.windows) != len(ws) {
		return false
	}
	known := make(map[stack.Window]struct{}, len(b.windows))
	for _, w := range b.windows {
		known[w] = struct{}{}
	}
	for _, w := range ws {
		if _, ok := known[w]; !ok {
			return false
		}
	}
	return true
}

func (b *BinarySpacePartition) leafCount() int {
	n := 0
	for _, node := range b.nodes {
		if node.leaf() {
			n++
		}
	}
	return n
}

// rebuilt returns a fresh tree for ws: every new window splits the in-order
// last leaf, alternating the axis with depth.
func (b *BinarySpacePartition) rebuilt(ws []stack.Window) *BinarySpacePartition {
	t := &BinarySpacePartition{
		ratios:  b.ratios,
		nodes:   []bspNode{{parent: -1, left: -1, right: -1, slot: 0}},
		root:    0,
		windows: slices.Clone(ws),
	}
	for slot := 1; slot < len(ws); slot++ {
		last, depth := t.root, 0
		for !t.nodes[last].leaf() {
			last = t.nodes[last].right
			depth++
		}
		axis := Horizontal
		if depth%2 == 1 {
			axis = Vertical
		}
		t.split(last, axis, slot)
	}
	return t
}

// split turns the leaf at idx into a split node whose left child keeps the
// old slot and whose right child holds slot.
func (b *BinarySpacePartition) split(idx int, axis Axis, slot int) {
	left := len(b.nodes)
	b.nodes = append(b.nodes,
		bspNode{parent: idx, left: -1, right: -1, slot: b.nodes[idx].slot},
		bspNode{parent: idx, left: -1, right: -1, slot: slot},
	)
	n := &b.nodes[idx]
	n.left, n.right = left, left+1
	n.axis, n.ratio, n.slot = axis, defaultSplit, -1
}

func (b *BinarySpacePartition) place(idx int, r Rect, rects []Rect) {
	n := b.nodes[idx]
	if n.leaf() {
		rects[n.slot] = r
		return
	}
	first, second := r.Split(n.axis, n.ratio)
	b.place(n.left, first, rects)
	b.place(n.right, second, rects)
}

func (b *BinarySpacePartition) leafFor(slot int) int {
	for i, n := range b.nodes {
		if n.leaf() && n.slot == slot {
			return i
		}
	}
	return b.root
}

// rotate rotates the subtree at the focused leaf's parent, pivoting on the
// leaf's sibling. A leaf sibling cannot pivot, so the parent's axis flips
// instead.
func (b *BinarySpacePartition) rotate(leaf int) bool {
	p := b.nodes[leaf].parent
	if p < 0 {
		return false
	}
	if b.nodes[p].left == leaf {
		if b.nodes[b.nodes[p].right].leaf() {
			b.nodes[p].axis = b.nodes[p].axis.Toggle()
			return true
		}
		b.rotateLeft(p)
		return true
	}
	if b.nodes[b.nodes[p].left].leaf() {
		b.nodes[p].axis = b.nodes[p].axis.Toggle()
		return true
	}
	b.rotateRight(p)
	return true
}

func (b *BinarySpacePartition) rotateLeft(p int) {
	q := b.nodes[p].right
	inner := b.nodes[q].left
	b.nodes[p].right = inner
	b.nodes[inner].parent = p
	b.replaceChild(b.nodes[p].parent, p, q)
	b.nodes[q].left = p
	b.nodes[p].parent = q
}

func (b *BinarySpacePartition) rotateRight(p int) {
	q := b.nodes[p].left
	inner := b.nodes[q].right
	b.nodes[p].left = inner
	b.nodes[inner].parent = p
	b.replaceChild(b.nodes[p].parent, p, q)
	b.nodes[q].right = p
	b.nodes[p].parent = q
}

func (b *BinarySpacePartition) replaceChild(parent, old, repl int) {
	b.nodes[repl].parent = parent
	switch {
	case parent < 0:
		b.root = repl
	case b.nodes[parent].left == old:
		b.nodes[parent].left = repl
	default:
		b.nodes[parent].right = repl
	}
}

// swap exchanges the focused leaf with its sibling subtree. Each side keeps
// its share of the parent.
func (b *BinarySpacePartition) swap(leaf int) bool {
	p := b.nodes[leaf].parent
	if p < 0 {
		return false
	}
	n := &b.nodes[p]
	n.left, n.right = n.right, n.left
	n.ratio = 1 - n.ratio
	return true
}

// resize adjusts the nearest ancestor split along axis. A positive delta
// grows the side holding the focused leaf.
func (b *BinarySpacePartition) resize(leaf int, axis Axis, delta int) bool {
	child := leaf
	for p := b.nodes[leaf].parent; p >= 0; child, p = p, b.nodes[p].parent {
		if b.nodes[p].axis != axis {
			continue
		}
		step := delta
		if b.nodes[p].right == child {
			step = -delta
		}
		b.nodes[p].ratio = b.ratios.Adjust(b.nodes[p].ratio, step)
		return true
	}
	return false
}

func (b *BinarySpacePartition) adjustRoot(delta int) bool {
	if b.nodes[b.root].leaf() {
		return false
	}
	b.nodes[b.root].ratio = b.ratios.Adjust(b.nodes[b.root].ratio, delta)
	return true
}

func (b *BinarySpacePartition) treeSpec(idx int) *TreeSpec {
	n := b.nodes[idx]
	if n.leaf() {
		slot := n.slot
		return &TreeSpec{Slot: &slot}
	}
	return &TreeSpec{
		Axis:  n.axis.String(),
		Ratio: n.ratio,
		Left:  b.treeSpec(n.left),
		Right: b.treeSpec(n.right),
	}
}
