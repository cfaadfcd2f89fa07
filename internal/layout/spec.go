package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Layout type names used in configuration and persisted state.
const (
	TypeBSP         = "bsp"
	TypeFull        = "full"
	TypeTall        = "tall"
	TypeMirror      = "mirror"
	TypeGap         = "gap"
	TypeAvoidStruts = "avoid_struts"
	TypeBorders     = "borders"
	TypeNoBorders   = "no_borders"
	TypeCollection  = "collection"
)

// Spec is the serialisable form of a layout tree.
type Spec struct {
	Type      string    `json:"type" yaml:"type"`
	Ratio     float64   `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	NumMaster *int      `json:"num_master,omitempty" yaml:"num_master,omitempty"`
	Gap       int       `json:"gap,omitempty" yaml:"gap,omitempty"`
	Step      int       `json:"step,omitempty" yaml:"step,omitempty"`
	Edges     []string  `json:"edges,omitempty" yaml:"edges,omitempty"`
	Border    *int      `json:"border,omitempty" yaml:"border,omitempty"`
	Index     int       `json:"index,omitempty" yaml:"index,omitempty"`
	Inner     *Spec     `json:"inner,omitempty" yaml:"inner,omitempty"`
	Layouts   []Spec    `json:"layouts,omitempty" yaml:"layouts,omitempty"`
	Tree      *TreeSpec `json:"tree,omitempty" yaml:"tree,omitempty"`
}

// TreeSpec is a persisted BSP tree. Leaves carry a slot, split nodes carry
// an axis, a ratio and both children.
type TreeSpec struct {
	Axis  string    `json:"axis,omitempty" yaml:"axis,omitempty"`
	Ratio float64   `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Slot  *int      `json:"slot,omitempty" yaml:"slot,omitempty"`
	Left  *TreeSpec `json:"left,omitempty" yaml:"left,omitempty"`
	Right *TreeSpec `json:"right,omitempty" yaml:"right,omitempty"`
}

// Options carries the adjustment parameters shared by every layout built
// from a Spec.
type Options struct {
	Ratios  Ratios
	GapStep int
}

// DefaultOptions uses DefaultRatios and DefaultGapStep.
func DefaultOptions() Options {
	return Options{Ratios: DefaultRatios, GapStep: DefaultGapStep}
}

// DefaultSpec is the stock layout: gapped BSP and its mirror, both clear of
// top and bottom panels, plus a borderless fullscreen layout.
func DefaultSpec() Spec {
	bsp := func(mirror bool) Spec {
		inner := Spec{Type: TypeBSP}
		if mirror {
			base := inner
			inner = Spec{Type: TypeMirror, Inner: &base}
		}
		return Spec{
			Type: TypeGap,
			Gap:  8,
			Inner: &Spec{
				Type:  TypeAvoidStruts,
				Edges: []string{"up", "down"},
				Inner: &inner,
			},
		}
	}
	return Spec{
		Type: TypeCollection,
		Layouts: []Spec{
			bsp(false),
			bsp(true),
			{Type: TypeNoBorders, Inner: &Spec{Type: TypeFull}},
		},
	}
}

// Build constructs the layout described by spec.
func Build(spec Spec, opts Options) (Layout, error) {
	return build(spec, opts, "layout")
}

func build(spec Spec, opts Options, path string) (Layout, error) {
	switch strings.ToLower(spec.Type) {
	case TypeBSP:
		if spec.Tree == nil {
			return NewBSP(opts.Ratios), nil
		}
		b, err := bspFromTree(spec.Tree, opts.Ratios)
		if err != nil {
			return nil, fmt.Errorf("%s.tree: %w", path, err)
		}
		return b, nil

	case TypeFull:
		return Full{}, nil

	case TypeTall:
		n := 1
		if spec.NumMaster != nil {
			n = *spec.NumMaster
		}
		if n < 0 {
			return nil, fmt.Errorf("%s.num_master: must be >= 0", path)
		}
		ratio := spec.Ratio
		if ratio == 0 {
			ratio = defaultSplit
		}
		if err := checkRatio(ratio); err != nil {
			return nil, fmt.Errorf("%s.ratio: %w", path, err)
		}
		return NewTall(n, ratio, opts.Ratios), nil

	case TypeMirror:
		inner, err := buildInner(spec, opts, path)
		if err != nil {
			return nil, err
		}
		return NewMirror(inner), nil

	case TypeGap:
		if spec.Gap < 0 {
			return nil, fmt.Errorf("%s.gap: must be >= 0", path)
		}
		if spec.Step < 0 {
			return nil, fmt.Errorf("%s.step: must be >= 0", path)
		}
		inner, err := buildInner(spec, opts, path)
		if err != nil {
			return nil, err
		}
		g := NewGap(spec.Gap, inner)
		switch {
		case spec.Step > 0:
			g.Step = spec.Step
		case opts.GapStep > 0:
			g.Step = opts.GapStep
		}
		return g, nil

	case TypeAvoidStruts:
		edges := make([]Direction, 0, len(spec.Edges))
		for i, e := range spec.Edges {
			d, err := ParseDirection(e)
			if err != nil {
				return nil, fmt.Errorf("%s.edges[%d]: %w", path, i, err)
			}
			edges = append(edges, d)
		}
		inner, err := buildInner(spec, opts, path)
		if err != nil {
			return nil, err
		}
		return NewAvoidStruts(edges, inner), nil

	case TypeBorders:
		if spec.Border == nil {
			return nil, fmt.Errorf("%s.border: required for %s", path, TypeBorders)
		}
		if *spec.Border < 0 {
			return nil, fmt.Errorf("%s.border: must be >= 0", path)
		}
		inner, err := buildInner(spec, opts, path)
		if err != nil {
			return nil, err
		}
		return NewWithBorders(*spec.Border, inner), nil

	case TypeNoBorders:
		inner, err := buildInner(spec, opts, path)
		if err != nil {
			return nil, err
		}
		return NewNoBorders(inner), nil

	case TypeCollection:
		if len(spec.Layouts) == 0 {
			return nil, fmt.Errorf("%s.layouts: must contain at least one layout", path)
		}
		if spec.Index < 0 || spec.Index >= len(spec.Layouts) {
			return nil, fmt.Errorf("%s.index: %d out of range [0,%d)", path, spec.Index, len(spec.Layouts))
		}
		members := make([]Layout, len(spec.Layouts))
		for i, m := range spec.Layouts {
			l, err := build(m, opts, fmt.Sprintf("%s.layouts[%d]", path, i))
			if err != nil {
				return nil, err
			}
			members[i] = l
		}
		return &Collection{Layouts: members, Index: spec.Index}, nil

	case "":
		return nil, fmt.Errorf("%s.type: required", path)

	default:
		return nil, fmt.Errorf("%s.type: unknown layout %q (valid: %s)", path, spec.Type, strings.Join(Types(), ", "))
	}
}

// Types lists the accepted layout type names.
func Types() []string {
	return []string{
		TypeBSP, TypeFull, TypeTall, TypeMirror, TypeGap,
		TypeAvoidStruts, TypeBorders, TypeNoBorders, TypeCollection,
	}
}

func buildInner(spec Spec, opts Options, path string) (Layout, error) {
	if spec.Inner == nil {
		return nil, fmt.Errorf("%s.inner: required for %s", path, spec.Type)
	}
	return build(*spec.Inner, opts, path+".inner")
}

func checkRatio(r float64) error {
	if r <= 0 || r >= 1 {
		return fmt.Errorf("%v must be between 0 and 1", r)
	}
	return nil
}

// bspFromTree rebuilds an arena from a persisted tree. Slots must be a
// permutation of 0..n-1.
func bspFromTree(ts *TreeSpec, ratios Ratios) (*BinarySpacePartition, error) {
	b := &BinarySpacePartition{ratios: ratios}
	root, err := b.addTree(ts, -1)
	if err != nil {
		return nil, err
	}
	b.root = root

	n := b.leafCount()
	seen := make([]bool, n)
	for _, node := range b.nodes {
		if !node.leaf() {
			continue
		}
		if node.slot < 0 || node.slot >= n || seen[node.slot] {
			return nil, fmt.Errorf("slots must be a permutation of 0..%d", n-1)
		}
		seen[node.slot] = true
	}
	return b, nil
}

func (b *BinarySpacePartition) addTree(ts *TreeSpec, parent int) (int, error) {
	if ts == nil {
		return -1, errors.New("missing node")
	}
	idx := len(b.nodes)
	b.nodes = append(b.nodes, bspNode{parent: parent, left: -1, right: -1, slot: -1})

	if ts.Slot != nil {
		if ts.Left != nil || ts.Right != nil {
			return -1, errors.New("leaf with a slot cannot have children")
		}
		b.nodes[idx].slot = *ts.Slot
		return idx, nil
	}

	axis, err := ParseAxis(ts.Axis)
	if err != nil {
		return -1, err
	}
	if err := checkRatio(ts.Ratio); err != nil {
		return -1, fmt.Errorf("ratio %w", err)
	}
	left, err := b.addTree(ts.Left, idx)
	if err != nil {
		return -1, err
	}
	right, err := b.addTree(ts.Right, idx)
	if err != nil {
		return -1, err
	}
	n := &b.nodes[idx]
	n.axis, n.ratio, n.left, n.right = axis, ts.Ratio, left, right
	return idx, nil
}
