package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/lamina/pkg/mesh"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple keyword",
			in:   `(cube :size 1)`,
			want: `(cube "__kw_size" 1)`,
		},
		{
			name: "multiple keywords",
			in:   `(scale f :by (vec3 2 2 2) :pivot :center)`,
			want: `(scale f "__kw_by" (vec3 2 2 2) "__kw_pivot" "__kw_center")`,
		},
		{
			name: "keyword in string preserved",
			in:   `(def label ":size")`,
			want: `(def label ":size")`,
		},
		{
			name: "assignment operator preserved",
			in:   `(x := 5)`,
			want: `(x := 5)`,
		},
		{
			name: "kebab-case identifier",
			in:   `(extrude-face top :by dir)`,
			want: `(extrude_face top "__kw_by" dir)`,
		},
		{
			name: "minus operator preserved",
			in:   `(- 5 3)`,
			want: `(- 5 3)`,
		},
		{
			name: "double semicolon comment",
			in:   ";; a comment\n(+ 1 2)",
			want: "// a comment\n(+ 1 2)",
		},
		{
			name: "single semicolon comment",
			in:   "(+ 1 2) ; trailing",
			want: "(+ 1 2) // trailing",
		},
		{
			name: "hyphen inside keyword",
			in:   `(rotate f :by-degrees d)`,
			want: `(rotate f "__kw_by-degrees" d)`,
		},
		{
			name: "semicolon in string preserved",
			in:   `(def s "a;b")`,
			want: `(def s "a;b")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.in)
			if got != tt.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *mesh.Mesh {
	t.Helper()
	eng := NewEngine()
	m, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if m == nil {
		t.Fatal("expected non-nil mesh")
	}
	return m
}

// evalFail evaluates source and returns the eval errors, failing the test
// if evaluation unexpectedly succeeds.
func evalFail(t *testing.T, source string) []EvalError {
	t.Helper()
	eng := NewEngine()
	m, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected eval errors, got mesh with %d vertices", m.VertexCount())
	}
	return evalErrs
}

func TestBuiltinVertexAndFace(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 0 0 0))
(def b (vertex 1 0 0))
(def c (vertex 1 1 0))
(def d (vertex 0 1 0))
(face a b c d)
`)
	if m.VertexCount() != 4 || m.HalfedgeCount() != 8 || m.FaceCount() != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/8/1",
			m.VertexCount(), m.HalfedgeCount(), m.FaceCount())
	}
}

func TestBuiltinFaceTooFewArgs(t *testing.T) {
	errs := evalFail(t, `(face (vertex 0 0 0) (vertex 1 0 0))`)
	if !strings.Contains(errs[0].Message, "at least 3") {
		t.Errorf("expected arity error, got: %v", errs[0])
	}
}

func TestBuiltinFaceRejectsNonVertex(t *testing.T) {
	evalFail(t, `(face 1 2 3)`)
}

func TestBuiltinTriangleAndQuad(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 0 0 0))
(def b (vertex 1 0 0))
(def c (vertex 1 1 0))
(def d (vertex 0 1 0))
(triangle a b c)
(quad a c d (vertex -1 0 0))
`)
	if m.VertexCount() != 5 || m.FaceCount() != 2 {
		t.Errorf("counts = %d/%d, want 5/2", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinTriangleWrongArity(t *testing.T) {
	errs := evalFail(t, `(triangle (vertex 0 0 0) (vertex 1 0 0))`)
	if !strings.Contains(errs[0].Message, "3 vertex references") {
		t.Errorf("expected arity error, got: %v", errs[0])
	}
}

func TestBuiltinCube(t *testing.T) {
	m := evalOK(t, `(cube :size 2)`)
	if m.VertexCount() != 8 || m.HalfedgeCount() != 24 || m.FaceCount() != 6 {
		t.Errorf("counts = %d/%d/%d, want 8/24/6",
			m.VertexCount(), m.HalfedgeCount(), m.FaceCount())
	}
}

func TestBuiltinCubeDefaultSize(t *testing.T) {
	m := evalOK(t, `(cube)`)
	if m.VertexCount() != 8 || m.FaceCount() != 6 {
		t.Errorf("counts = %d/%d, want 8/6", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinCubeInvalidSize(t *testing.T) {
	errs := evalFail(t, `(cube :size 0)`)
	if !strings.Contains(errs[0].Message, "cube") {
		t.Errorf("expected cube error, got: %v", errs[0])
	}
}

func TestBuiltinTwoCubes(t *testing.T) {
	// Each cube call merges an independent component.
	m := evalOK(t, `
(def a (cube :size 1))
(def b (cube :size 1))
(translate b :by (vec3 3 0 0))
`)
	if m.VertexCount() != 16 || m.FaceCount() != 12 {
		t.Errorf("counts = %d/%d, want 16/12", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinExtrudeFace(t *testing.T) {
	m := evalOK(t, `(extrude-face (cube :size 1) :by (vec3 0 1 0))`)
	if m.VertexCount() != 12 || m.HalfedgeCount() != 40 || m.FaceCount() != 10 {
		t.Errorf("counts = %d/%d/%d, want 12/40/10",
			m.VertexCount(), m.HalfedgeCount(), m.FaceCount())
	}
}

func TestBuiltinExtrudeFaceChained(t *testing.T) {
	m := evalOK(t, `
(def top (cube :size 1))
(def lifted (extrude-face top :by (vec3 0 1 0)))
(extrude-face lifted :by (vec3 0 1 0))
`)
	if m.VertexCount() != 16 || m.FaceCount() != 14 {
		t.Errorf("counts = %d/%d, want 16/14", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinExtrudeFaceMissingRef(t *testing.T) {
	evalFail(t, `(extrude-face :by (vec3 0 1 0))`)
}

func TestBuiltinTranslate(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 0 0 0))
(def b (vertex 1 0 0))
(def c (vertex 1 1 0))
(face a b c)
(translate a b c :by (vec3 10 0 0))
`)
	for _, v := range m.Vertices() {
		p, err := m.Position(v)
		if err != nil {
			t.Fatalf("position: %v", err)
		}
		if p.X < 10 {
			t.Errorf("vertex %s not translated, x = %v", v, p.X)
		}
	}
}

func TestBuiltinTranslateMissingBy(t *testing.T) {
	errs := evalFail(t, `(translate (vertex 0 0 0))`)
	if !strings.Contains(errs[0].Message, ":by") {
		t.Errorf("expected :by error, got: %v", errs[0])
	}
}

func TestBuiltinScaleWithPivot(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 1 0 0))
(def b (vertex 2 0 0))
(def c (vertex 2 1 0))
(face a b c)
(scale a b c :by (vec3 2 2 2) :pivot :origin)
`)
	var maxX float64
	for _, v := range m.Vertices() {
		p, _ := m.Position(v)
		if p.X > maxX {
			maxX = p.X
		}
	}
	if math.Abs(maxX-4) > 1e-9 {
		t.Errorf("max x after scale about origin = %v, want 4", maxX)
	}
}

func TestBuiltinScaleBadPivot(t *testing.T) {
	errs := evalFail(t, `
(def a (vertex 0 0 0))
(def b (vertex 1 0 0))
(def c (vertex 1 1 0))
(face a b c)
(scale a b c :by (vec3 2 2 2) :pivot :sideways)
`)
	if !strings.Contains(errs[0].Message, "pivot") {
		t.Errorf("expected pivot error, got: %v", errs[0])
	}
}

func TestBuiltinRotate(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 1 0 0))
(def b (vertex 2 0 0))
(def c (vertex 2 1 0))
(face a b c)
(rotate a b c :by (vec3 0 0 90) :pivot :origin)
`)
	// (1,0,0) rotated 90 degrees around Z lands on (0,1,0).
	var found bool
	for _, v := range m.Vertices() {
		p, _ := m.Position(v)
		if math.Abs(p.X) < 1e-9 && math.Abs(p.Y-1) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Error("expected a vertex at (0,1,0) after rotation")
	}
}

func TestBuiltinSubdivide(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 0 0 0))
(def b (vertex 2 0 0))
(def c (vertex 0 2 0))
(subdivide (face a b c))
`)
	if m.VertexCount() != 6 || m.FaceCount() != 4 {
		t.Errorf("counts = %d/%d, want 6/4", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinDeleteFace(t *testing.T) {
	// Deleting one face of a closed cube leaves every edge bordering a
	// surviving face, so only the face itself goes.
	m := evalOK(t, `
(def top (cube :size 1))
(delete-face top)
`)
	if m.VertexCount() != 8 || m.FaceCount() != 5 {
		t.Errorf("counts = %d verts %d faces, want 8/5", m.VertexCount(), m.FaceCount())
	}
}

func TestBuiltinRecalculateNormals(t *testing.T) {
	evalOK(t, `
(cube :size 1)
(recalculate-normals)
`)
}

func TestBuiltinVec3WrongArity(t *testing.T) {
	errs := evalFail(t, `(vec3 1 2)`)
	if !strings.Contains(errs[0].Message, "3 arguments") {
		t.Errorf("expected arity error, got: %v", errs[0])
	}
}

func TestBuiltinVec3NonNumber(t *testing.T) {
	evalFail(t, `(vec3 1 2 "three")`)
}

func TestBuiltinSelectionFromArray(t *testing.T) {
	m := evalOK(t, `
(def a (vertex 0 0 0))
(def b (vertex 1 0 0))
(def c (vertex 1 1 0))
(face a b c)
(translate [a b c] :by (vec3 0 0 5))
`)
	for _, v := range m.Vertices() {
		p, _ := m.Position(v)
		if math.Abs(p.Z-5) > 1e-9 {
			t.Errorf("vertex %s z = %v, want 5", v, p.Z)
		}
	}
}
