package exact

import (
	"math/big"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

func TestRoundTripFloat(t *testing.T) {
	in := r3.Vec{X: 0.1, Y: -2.5, Z: 3}
	out := FromR3(in).ToR3()
	if out != in {
		t.Errorf("round trip changed %v to %v", in, out)
	}
}

func TestVecOps(t *testing.T) {
	a := NewVec(1, 2, 3)
	b := NewVec(4, 5, 6)

	if got := a.Add(b); !got.Eq(NewVec(5, 7, 9)) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); !got.Eq(NewVec(3, 3, 3)) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); got.Cmp(rat(32, 1)) != 0 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := a.Cross(b); !got.Eq(NewVec(-3, 6, -3)) {
		t.Errorf("Cross = %v", got)
	}
	if !a.Sub(a).IsZero() {
		t.Error("a - a is not zero")
	}
}

func TestLerp(t *testing.T) {
	a := NewVec(0, 0, 0)
	b := NewVec(2, 4, 8)
	mid := Lerp(a, b, rat(1, 2))
	if !mid.Eq(NewVec(1, 2, 4)) {
		t.Errorf("Lerp half = %v", mid)
	}
}

func TestKeyNormalized(t *testing.T) {
	a := Vec{rat(1, 2), rat(0, 1), rat(2, 4)}
	b := Vec{rat(2, 4), rat(0, 3), rat(1, 2)}
	if a.Key() != b.Key() {
		t.Errorf("keys differ for equal points: %q vs %q", a.Key(), b.Key())
	}
}

func TestOrient3D(t *testing.T) {
	a, b, c := NewVec(0, 0, 0), NewVec(1, 0, 0), NewVec(0, 1, 0)
	tests := []struct {
		name string
		d    Vec
		want int
	}{
		{"above", NewVec(0, 0, 1), 1},
		{"below", NewVec(0, 0, -1), -1},
		{"coplanar", NewVec(5, -3, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orient3D(a, b, c, tt.d); got != tt.want {
				t.Errorf("Orient3D = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrient2D(t *testing.T) {
	a := Vec2{rat(0, 1), rat(0, 1)}
	b := Vec2{rat(1, 1), rat(0, 1)}
	ccw := Vec2{rat(0, 1), rat(1, 1)}
	cw := Vec2{rat(0, 1), rat(-1, 1)}
	on := Vec2{rat(7, 2), rat(0, 1)}

	if got := Orient2D(a, b, ccw); got != 1 {
		t.Errorf("ccw = %d, want 1", got)
	}
	if got := Orient2D(a, b, cw); got != -1 {
		t.Errorf("cw = %d, want -1", got)
	}
	if got := Orient2D(a, b, on); got != 0 {
		t.Errorf("collinear = %d, want 0", got)
	}
}

func TestOnSegment(t *testing.T) {
	a := Vec2{rat(0, 1), rat(0, 1)}
	b := Vec2{rat(4, 1), rat(4, 1)}
	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"midpoint", Vec2{rat(2, 1), rat(2, 1)}, true},
		{"endpoint", Vec2{rat(4, 1), rat(4, 1)}, true},
		{"off line", Vec2{rat(2, 1), rat(3, 1)}, false},
		{"beyond end", Vec2{rat(5, 1), rat(5, 1)}, false},
		{"before start", Vec2{rat(-1, 1), rat(-1, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnSegment(a, b, tt.p); got != tt.want {
				t.Errorf("OnSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsCross(t *testing.T) {
	a := Vec2{rat(0, 1), rat(0, 1)}
	b := Vec2{rat(2, 1), rat(2, 1)}
	c := Vec2{rat(0, 1), rat(2, 1)}
	d := Vec2{rat(2, 1), rat(0, 1)}

	tpar, ok := SegmentsCross(a, b, c, d)
	if !ok {
		t.Fatal("diagonals of a square do not cross")
	}
	if tpar.Cmp(rat(1, 2)) != 0 {
		t.Errorf("t = %v, want 1/2", tpar)
	}

	// Touching at an endpoint is not a proper crossing.
	if _, ok := SegmentsCross(a, b, b, d); ok {
		t.Error("endpoint touch reported as crossing")
	}
	// Parallel segments never cross.
	e := Vec2{rat(0, 1), rat(1, 1)}
	f := Vec2{rat(2, 1), rat(3, 1)}
	if _, ok := SegmentsCross(a, b, e, f); ok {
		t.Error("parallel segments reported as crossing")
	}
}
