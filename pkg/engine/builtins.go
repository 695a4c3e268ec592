package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lamina/pkg/mesh"
	"github.com/chazu/lamina/pkg/primitives"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Lamina Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: extrude-face -> extrude_face
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

// sexpVertex wraps a mesh.VertexID so it can be passed between builtins.
type sexpVertex struct {
	id mesh.VertexID
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vertex-ref %s)", v.id)
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpFace wraps a mesh.FaceID so it can be passed between builtins.
type sexpFace struct {
	id mesh.FaceID
}

func (f *sexpFace) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(face-ref %s)", f.id)
}
func (f *sexpFace) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.2f %.2f %.2f)", v.vec.X, v.vec.Y, v.vec.Z)
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
				// Keyword at end with no value; treat as flag with nil.
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

// toVertexRef extracts a VertexID from a sexpVertex.
func toVertexRef(s zygo.Sexp) (mesh.VertexID, error) {
	if ref, ok := s.(*sexpVertex); ok {
		return ref.id, nil
	}
	return mesh.VertexID{}, fmt.Errorf("expected vertex reference, got %T (%s)", s, s.SexpString(nil))
}

// toFaceRef extracts a FaceID from a sexpFace.
func toFaceRef(s zygo.Sexp) (mesh.FaceID, error) {
	if ref, ok := s.(*sexpFace); ok {
		return ref.id, nil
	}
	return mesh.FaceID{}, fmt.Errorf("expected face reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_center) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toPivot converts a :pivot keyword or vec3 into a mesh.Pivot.
func toPivot(s zygo.Sexp) (mesh.Pivot, error) {
	if v, ok := s.(*sexpVec3); ok {
		return mesh.PivotPoint(v.vec), nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return mesh.Pivot{}, fmt.Errorf("expected pivot keyword (:origin, :center) or vec3: %w", err)
	}
	switch name {
	case "origin":
		return mesh.PivotOrigin(), nil
	case "center":
		return mesh.PivotCenter(), nil
	}
	return mesh.Pivot{}, fmt.Errorf("invalid pivot %q, expected origin or center", name)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toSelection builds a mesh.Selection from positional vertex/face refs.
// Lists and arrays of refs are flattened.
func toSelection(args []zygo.Sexp) (mesh.Selection, error) {
	var sel mesh.Selection
	for _, a := range args {
		switch v := a.(type) {
		case *sexpVertex:
			sel.AddVertex(v.id)
		case *sexpFace:
			sel.AddFace(v.id)
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(a)
			if err != nil {
				return mesh.Selection{}, err
			}
			nested, err := toSelection(items)
			if err != nil {
				return mesh.Selection{}, err
			}
			sel = sel.Merge(nested)
		default:
			return mesh.Selection{}, fmt.Errorf("expected vertex or face reference, got %T (%s)", a, a.SexpString(nil))
		}
	}
	return sel, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder holds the mesh being constructed during one evaluation.
type builder struct {
	mesh *mesh.Mesh
}

// registerBuiltins installs all Lamina DSL builtins into a zygomys environment.
// The builtins operate on the builder's mesh, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

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
		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (vertex 0 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vertex requires exactly 3 coordinates, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: z: %w", err)
		}
		return &sexpVertex{id: b.mesh.AddVertex(v3.Vec{X: x, Y: y, Z: z})}, nil
	})

	// -----------------------------------------------------------------------
	// (face v0 v1 v2 ...) adds a polygon face over existing vertices.
	// -----------------------------------------------------------------------
	env.AddFunction("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("face requires at least 3 vertex references, got %d", len(args))
		}
		verts := make([]mesh.VertexID, len(args))
		for i, a := range args {
			id, err := toVertexRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face: argument %d: %w", i, err)
			}
			verts[i] = id
		}
		f, err := b.mesh.MakeFace(verts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		return &sexpFace{id: f}, nil
	})

	// -----------------------------------------------------------------------
	// (triangle v0 v1 v2) and (quad v0 v1 v2 v3): fixed-arity face forms.
	// -----------------------------------------------------------------------
	env.AddFunction("triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("triangle requires exactly 3 vertex references, got %d", len(args))
		}
		verts := make([]mesh.VertexID, 3)
		for i, a := range args {
			id, err := toVertexRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("triangle: argument %d: %w", i, err)
			}
			verts[i] = id
		}
		f, err := b.mesh.MakeTriangle(verts[0], verts[1], verts[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangle: %w", err)
		}
		return &sexpFace{id: f}, nil
	})

	env.AddFunction("quad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("quad requires exactly 4 vertex references, got %d", len(args))
		}
		verts := make([]mesh.VertexID, 4)
		for i, a := range args {
			id, err := toVertexRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("quad: argument %d: %w", i, err)
			}
			verts[i] = id
		}
		f, err := b.mesh.MakeQuad(verts[0], verts[1], verts[2], verts[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("quad: %w", err)
		}
		return &sexpFace{id: f}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :size 1) merges a unit cube into the mesh, returns its top face.
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := 1.0
		if v, ok := pa.kw["size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
			size = f
		}
		cube, data, err := primitives.Cube(size)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		topLoop := cube.VerticesAroundFace(data.Top)
		vertMap, err := b.mesh.CombineWith(cube)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		mapped := make([]mesh.VertexID, len(topLoop))
		for i, v := range topLoop {
			mapped[i] = vertMap[v]
		}
		top, err := b.mesh.FindFace(mapped)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		return &sexpFace{id: top}, nil
	})

	// -----------------------------------------------------------------------
	// (extrude-face f :by (vec3 0 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("extrude_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("extrude-face requires a face reference")
		}
		f, err := toFaceRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude-face: %w", err)
		}
		top, err := b.mesh.ExtrudeFace(f)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude-face: %w", err)
		}
		if v, ok := pa.kw["by"]; ok {
			delta, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude-face: by: %w", err)
			}
			if err := b.mesh.Translate(mesh.SelectFaces(top), delta); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude-face: %w", err)
			}
		}
		return &sexpFace{id: top}, nil
	})

	// -----------------------------------------------------------------------
	// (translate refs... :by (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sel, err := toSelection(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("translate requires :by (vec3 ...)")
		}
		delta, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: by: %w", err)
		}
		if err := b.mesh.Translate(sel, delta); err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (scale refs... :by (vec3 2 2 2) :pivot :center)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sel, err := toSelection(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scale requires :by (vec3 ...)")
		}
		factors, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: by: %w", err)
		}
		pivot := mesh.PivotCenter()
		if p, ok := pa.kw["pivot"]; ok {
			pivot, err = toPivot(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scale: pivot: %w", err)
			}
		}
		if err := b.mesh.Scale(sel, factors, pivot); err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (rotate refs... :by (vec3 0 0 90) :pivot :origin)
	// Angles are Euler degrees applied in X, Y, Z order.
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sel, err := toSelection(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate requires :by (vec3 ...)")
		}
		degrees, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: by: %w", err)
		}
		pivot := mesh.PivotCenter()
		if p, ok := pa.kw["pivot"]; ok {
			pivot, err = toPivot(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: pivot: %w", err)
			}
		}
		if err := b.mesh.Rotate(sel, degrees, pivot); err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (subdivide refs...)
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sel, err := toSelection(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}
		if err := b.mesh.Subdivide(sel); err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (delete-face f)
	// -----------------------------------------------------------------------
	env.AddFunction("delete_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete-face requires a face reference")
		}
		f, err := toFaceRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-face: %w", err)
		}
		if err := b.mesh.DeleteFace(f); err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-face: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (recalculate-normals)
	// -----------------------------------------------------------------------
	env.AddFunction("recalculate_normals", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := b.mesh.RecalculateNormals(); err != nil {
			return zygo.SexpNull, fmt.Errorf("recalculate-normals: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
