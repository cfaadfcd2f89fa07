package config

import "github.com/1broseidon/tilecore/internal/layout"

// BuiltinLayouts returns the built-in layout library.
//
// These are always available without defining them in YAML. A layout of the
// same name in the config file replaces the built-in one.
func BuiltinLayouts() map[string]layout.Spec {
	panel := func(inner layout.Spec) layout.Spec {
		return layout.Spec{
			Type: layout.TypeGap,
			Gap:  8,
			Inner: &layout.Spec{
				Type:  layout.TypeAvoidStruts,
				Edges: []string{"up", "down"},
				Inner: &inner,
			},
		}
	}
	one := 1

	return map[string]layout.Spec{
		DefaultLayoutName: layout.DefaultSpec(),
		"bsp":             panel(layout.Spec{Type: layout.TypeBSP}),
		"tall": panel(layout.Spec{
			Type: layout.TypeCollection,
			Layouts: []layout.Spec{
				{Type: layout.TypeTall, NumMaster: &one, Ratio: 0.5},
				{Type: layout.TypeMirror, Inner: &layout.Spec{Type: layout.TypeTall, NumMaster: &one, Ratio: 0.5}},
			},
		}),
		"monocle": {Type: layout.TypeNoBorders, Inner: &layout.Spec{Type: layout.TypeFull}},
	}
}
