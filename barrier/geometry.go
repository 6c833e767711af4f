package barrier

import (
	"math"
	"math/big"

	"github.com/mitroadmaps/gomapinfer/common"
)

// relative error bound of the floating point orientation determinant
var ccwErrBound = (3 + 16*epsilon) * epsilon

const epsilon = 1.1102230246251565e-16 // 2^-53

// orientation is positive when c lies to the left of the directed line a-b,
// negative when it lies to the right and zero when the three points are
// collinear. The sign is exact: when the floating point determinant is too
// close to zero it is recomputed with rationals.
func orientation(a, b, c common.Point) int {
	detLeft := (a.X - c.X) * (b.Y - c.Y)
	detRight := (a.Y - c.Y) * (b.X - c.X)
	det := detLeft - detRight
	bound := ccwErrBound * (math.Abs(detLeft) + math.Abs(detRight))
	if det > bound {
		return 1
	} else if -det > bound {
		return -1
	}
	return exactOrientation(a, b, c)
}

func exactOrientation(a, b, c common.Point) int {
	r := func(f float64) *big.Rat {
		return new(big.Rat).SetFloat64(f)
	}
	ax := new(big.Rat).Sub(r(a.X), r(c.X))
	ay := new(big.Rat).Sub(r(a.Y), r(c.Y))
	bx := new(big.Rat).Sub(r(b.X), r(c.X))
	by := new(big.Rat).Sub(r(b.Y), r(c.Y))
	left := new(big.Rat).Mul(ax, by)
	right := new(big.Rat).Mul(ay, bx)
	return left.Cmp(right)
}

// crosses reports whether segments a-b and c-d cross at a single point
// interior to both. Touching, collinear overlap and shared endpoints are not
// proper intersections.
func crosses(a, b, c, d common.Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	if o1 == 0 || o2 == 0 || o1 == o2 {
		return false
	}
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	return o3 != 0 && o4 != 0 && o3 != o4
}

// intersection is the point where the lines through two segments meet,
// clamped to the first one. The same pair of segments gives the same point
// whatever the order they are given in.
func intersection(s1, s2 segment) common.Point {
	s1 = newSegment(s1.a, s1.b)
	s2 = newSegment(s2.a, s2.b)
	if less(s2.a, s1.a) || (s2.a == s1.a && less(s2.b, s1.b)) {
		s1, s2 = s2, s1
	}
	a, c := s1.a, s2.a
	r := common.Point{X: s1.b.X - a.X, Y: s1.b.Y - a.Y}
	s := common.Point{X: s2.b.X - c.X, Y: s2.b.Y - c.Y}
	denom := r.X*s.Y - r.Y*s.X
	if denom == 0 {
		return a.Add(r.Scale(0.5))
	}
	q := common.Point{X: c.X - a.X, Y: c.Y - a.Y}
	t := (q.X*s.Y - q.Y*s.X) / denom
	t = math.Max(0, math.Min(1, t))
	return a.Add(r.Scale(t))
}

// properIntersection returns the crossing point of segments a-b and c-d when
// they cross properly.
func properIntersection(a, b, c, d common.Point) (common.Point, bool) {
	if !crosses(a, b, c, d) {
		return common.Point{}, false
	}
	return intersection(newSegment(a, b), newSegment(c, d)), true
}

// angle of the direction from origin to p, in radians
func direction(origin, p common.Point) float64 {
	return math.Atan2(p.Y-origin.Y, p.X-origin.X)
}

// counterClockwise is the angle to rotate counter-clockwise from one
// direction to the other, in (0, 2pi]. Equal directions give a full turn.
func counterClockwise(from, to float64) float64 {
	a := math.Mod(to-from, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a
}

// signedArea of a closed ring by the shoelace formula, positive for
// counter-clockwise rings. The last point is expected to repeat the first.
func signedArea(ring []common.Point) float64 {
	var area float64
	for i := 0; i+1 < len(ring); i++ {
		area += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return area / 2
}

// insideRing tests a point against a closed ring by ray casting. Points on
// the boundary may go either way.
func insideRing(p common.Point, ring []common.Point) bool {
	in := false
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if p.X < x {
			in = !in
		}
	}
	return in
}

func less(a, b common.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// overlaps is like Rectangle.Intersects but also accepts rectangles that
// only share a boundary, which happens for axis-aligned segments.
func overlaps(a, b common.Rectangle) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X && a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
