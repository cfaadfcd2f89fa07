package layout

import "github.com/1broseidon/tilecore/internal/stack"

// Collection cycles through a fixed list of layouts. Each member keeps its
// own state while inactive.
type Collection struct {
	Layouts []Layout
	Index   int
}

func NewCollection(layouts ...Layout) *Collection {
	return &Collection{Layouts: layouts}
}

// Current returns the active member, or nil for an empty collection.
func (c *Collection) Current() Layout {
	if len(c.Layouts) == 0 {
		return nil
	}
	return c.Layouts[c.Index]
}

func (c *Collection) Apply(env Env, s *stack.Stack, screen Rect) []Placement {
	cur := c.Current()
	if cur == nil {
		return nil
	}
	return cur.Apply(env, s, screen)
}

func (c *Collection) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	n := len(c.Layouts)
	if n == 0 {
		return c, false
	}
	switch msg.Kind {
	case Next:
		return &Collection{Layouts: c.Layouts, Index: (c.Index + 1) % n}, true
	case Prev:
		return &Collection{Layouts: c.Layouts, Index: (c.Index + n - 1) % n}, true
	}

	cur, ok := c.Layouts[c.Index].HandleMessage(msg, s)
	if !ok {
		return c, false
	}
	layouts := make([]Layout, n)
	copy(layouts, c.Layouts)
	layouts[c.Index] = cur
	return &Collection{Layouts: layouts, Index: c.Index}, true
}

func (c *Collection) Description() string {
	cur := c.Current()
	if cur == nil {
		return "Empty"
	}
	return cur.Description()
}

func (c *Collection) Copy() Layout {
	layouts := make([]Layout, len(c.Layouts))
	for i, l := range c.Layouts {
		layouts[i] = l.Copy()
	}
	return &Collection{Layouts: layouts, Index: c.Index}
}

func (c *Collection) Spec() Spec {
	members := make([]Spec, len(c.Layouts))
	for i, l := range c.Layouts {
		members[i] = l.Spec()
	}
	return Spec{Type: TypeCollection, Index: c.Index, Layouts: members}
}
