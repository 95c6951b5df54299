package engine

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/chazu/carve/pkg/csg"
	"github.com/chazu/carve/pkg/csgtree"
	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms carve Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: half-space -> half_space
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a csgtree.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   csgtree.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an r3.Vec.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value is treated as a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (csgtree.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return csgtree.ZeroID, fmt.Errorf("expected solid reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts an r3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Node ID generation
// ---------------------------------------------------------------------------

// nodeCounter provides unique suffixes for anonymous nodes.
var nodeCounter uint64

func nextNodeSuffix() string {
	n := atomic.AddUint64(&nodeCounter, 1)
	return fmt.Sprintf("_anon_%d", n)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all carve DSL builtins into a zygomys environment.
// The builtins operate on the provided Tree, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, t *csgtree.Tree) {

	addPrimitive := func(kind string, data csgtree.NodeData) zygo.Sexp {
		id := csgtree.NewNodeID(kind + "/" + nextNodeSuffix())
		t.AddNode(&csgtree.Node{
			ID:   id,
			Kind: csgtree.NodePrimitive,
			Data: data,
		})
		return &sexpNodeRef{id: id}
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: r3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (box 40 20 5)  or  (box :size (vec3 40 20 5))
	// The box sits with its minimum corner at the origin.
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		bd := csgtree.BoxData{}

		switch {
		case len(pa.positional) == 3:
			for i, field := range []*float64{&bd.Size.X, &bd.Size.Y, &bd.Size.Z} {
				f, err := toFloat64(pa.positional[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
				}
				*field = f
			}
		default:
			v, ok := pa.kw["size"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("box requires three dimensions or :size (vec3 ...)")
			}
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			bd.Size = vec
		}

		return addPrimitive("box", bd), nil
	})

	// -----------------------------------------------------------------------
	// (sphere 5)  or  (sphere :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sd := csgtree.SphereData{}

		v, ok := pa.kw["radius"]
		if !ok && len(pa.positional) == 1 {
			v, ok = pa.positional[0], true
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
		}
		r, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		sd.Radius = r

		return addPrimitive("sphere", sd), nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 10 3)  or  (cylinder :height 10 :radius 3)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cd := csgtree.CylinderData{}

		hv, hok := pa.kw["height"]
		rv, rok := pa.kw["radius"]
		if !hok && !rok && len(pa.positional) == 2 {
			hv, rv = pa.positional[0], pa.positional[1]
			hok, rok = true, true
		}
		if !hok || !rok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a height and a radius")
		}

		h, err := toFloat64(hv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toFloat64(rv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		cd.Height, cd.Radius = h, r

		return addPrimitive("cylinder", cd), nil
	})

	// -----------------------------------------------------------------------
	// (translate solid :by (vec3 10 0 0))  or  (translate solid 10 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return addTransform(t, "translate", args, func(td *csgtree.TransformData, v r3.Vec) {
			td.Translation = &v
		})
	})

	// -----------------------------------------------------------------------
	// (rotate solid :by (vec3 0 0 90))  or  (rotate solid 0 0 90)
	// Angles are Euler degrees applied X then Y then Z, before any
	// translation on the same node.
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return addTransform(t, "rotate", args, func(td *csgtree.TransformData, v r3.Vec) {
			td.Rotation = &v
		})
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (intersect a b), (minus a b), (xor a b), (resolve a b)
	// -----------------------------------------------------------------------
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 solids, got %d", len(args))
		}
		acc, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: argument 0: %w", err)
		}
		// Fold into a chain of binary nodes.
		for i := 1; i < len(args); i++ {
			next, err := toNodeRef(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: argument %d: %w", i, err)
			}
			acc = addBoolean(t, csg.Union, acc, next)
		}
		return &sexpNodeRef{id: acc}, nil
	})

	binary := map[string]csg.Op{
		"intersect": csg.Intersect,
		"minus":     csg.Minus,
		"xor":       csg.Xor,
		"resolve":   csg.Resolve,
	}
	for fname, op := range binary {
		op := op
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", name, len(args))
			}
			a, err := toNodeRef(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: first solid: %w", name, err)
			}
			b, err := toNodeRef(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: second solid: %w", name, err)
			}
			return &sexpNodeRef{id: addBoolean(t, op, a, b)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (defsolid "name" solid)
	// -----------------------------------------------------------------------
	env.AddFunction("defsolid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsolid requires a name and a solid expression")
		}

		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: name: %w", err)
		}
		childID, err := toNodeRef(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: body: %w", err)
		}

		id := csgtree.NewNodeID(solidName)
		t.AddNode(&csgtree.Node{
			ID:       id,
			Kind:     csgtree.NodeGroup,
			Name:     solidName,
			Children: []csgtree.NodeID{childID},
			Data:     csgtree.GroupData{},
		})

		return &sexpNodeRef{id: id, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (solid "name")
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}

		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}

		n := t.Lookup(solidName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("solid: no solid named %q", solidName)
		}

		return &sexpNodeRef{id: n.ID, name: solidName}, nil
	})

	// -----------------------------------------------------------------------
	// (emit solid ...)
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("emit requires at least one solid")
		}

		var last zygo.Sexp = zygo.SexpNull
		for i, arg := range args {
			id, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("emit: argument %d: %w", i, err)
			}
			t.AddRoot(id)
			last = arg
		}
		return last, nil
	})
}

// addTransform builds a transform node over the solid in args[0]. The vector
// comes from either a :by keyword or three positional numbers, and set
// stores it into the right TransformData field.
func addTransform(t *csgtree.Tree, kind string, args []zygo.Sexp, set func(*csgtree.TransformData, r3.Vec)) (zygo.Sexp, error) {
	pa := parseArgs(args)

	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("%s requires a solid as first argument", kind)
	}
	childID, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: solid: %w", kind, err)
	}

	var vec r3.Vec
	switch {
	case len(pa.positional) == 4:
		for i, field := range []*float64{&vec.X, &vec.Y, &vec.Z} {
			f, err := toFloat64(pa.positional[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: component %d: %w", kind, i, err)
			}
			*field = f
		}
	default:
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s requires :by (vec3 ...) or three components", kind)
		}
		vec, err = toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: by: %w", kind, err)
		}
	}

	td := csgtree.TransformData{}
	set(&td, vec)

	// Include the child name in the ID path when it has one; the suffix
	// keeps repeated transforms of the same solid distinct.
	idPath := kind + "/" + nextNodeSuffix()
	if child := t.Get(childID); child != nil && child.Name != "" {
		idPath = kind + "/" + child.Name + "/" + nextNodeSuffix()
	}
	id := csgtree.NewNodeID(idPath)

	t.AddNode(&csgtree.Node{
		ID:       id,
		Kind:     csgtree.NodeTransform,
		Children: []csgtree.NodeID{childID},
		Data:     td,
	})

	return &sexpNodeRef{id: id}, nil
}

// addBoolean builds a binary boolean node and returns its ID.
func addBoolean(t *csgtree.Tree, op csg.Op, a, b csgtree.NodeID) csgtree.NodeID {
	id := csgtree.NewNodeID(op.String() + "/" + nextNodeSuffix())
	t.AddNode(&csgtree.Node{
		ID:       id,
		Kind:     csgtree.NodeBoolean,
		Children: []csgtree.NodeID{a, b},
		Data:     csgtree.BooleanData{Op: op},
	})
	return id
}
