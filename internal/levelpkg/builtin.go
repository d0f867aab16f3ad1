package levelpkg

import (
	"fmt"
	"sort"

	"github.com/silevilence/picto-mino/internal/shape"
)

// builtinDef is one registry entry: the display name and the '#'/'.'
// mask the shape is built from. The anchor is always auto-centered.
type builtinDef struct {
	name   string
	matrix []string
}

// builtins is the fixed registry "builtin:<key>" sources resolve
// against. Keys are stable interchange identifiers; renaming one
// breaks every .level file that references it.
var builtins = map[string]builtinDef{
	"dot":      {"Dot", []string{"#"}},
	"bar-2":    {"Bar 2", []string{"##"}},
	"bar-3":    {"Bar 3", []string{"###"}},
	"bar-4":    {"Bar 4", []string{"####"}},
	"square-2": {"Square", []string{"##", "##"}},
	"corner-3": {"Corner", []string{"##", "#."}},
	"ell-4":    {"L", []string{"#.", "#.", "##"}},
	"jay-4":    {"J", []string{".#", ".#", "##"}},
	"tee-4":    {"T", []string{"###", ".#."}},
	"ess-4":    {"S", []string{".##", "##."}},
	"zed-4":    {"Z", []string{"##.", ".##"}},
}

// builtinShape resolves a builtin source name into a freshly built
// shape (shape.New clones, so registry entries never alias each other
// across levels).
func builtinShape(name string) (*shape.Shape, string, bool) {
	def, ok := builtins[name]
	if !ok {
		return nil, "", false
	}
	matrix, err := decodeMask(def.matrix, 0)
	if err != nil {
		panic(fmt.Sprintf("levelpkg: builtin %q has a malformed matrix: %v", name, err))
	}
	s, err := shape.New(matrix)
	if err != nil {
		panic(fmt.Sprintf("levelpkg: builtin %q: %v", name, err))
	}
	return s, def.name, true
}

// BuiltinNames lists every builtin shape key. Mainly useful to level
// authoring tools and tests.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
