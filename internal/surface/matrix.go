package surface

import "math"

// Matrix is a 2D affine transform mapping (x, y) to
// (XX*x + XY*y + X0, YX*x + YY*y + Y0).
type Matrix struct {
	XX, XY float64
	YX, YY float64
	X0, Y0 float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// Translate prepends a translation, so it applies before the receiver.
func (m Matrix) Translate(tx, ty float64) Matrix {
	m.X0 += m.XX*tx + m.XY*ty
	m.Y0 += m.YX*tx + m.YY*ty
	return m
}

// Scale prepends a scale.
func (m Matrix) Scale(sx, sy float64) Matrix {
	m.XX *= sx
	m.YX *= sx
	m.XY *= sy
	m.YY *= sy
	return m
}

// Rotate prepends a rotation by angle radians. With y pointing down a
// positive angle turns clockwise on screen.
func (m Matrix) Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{
		XX: m.XX*c + m.XY*s,
		XY: m.XX*(-s) + m.XY*c,
		YX: m.YX*c + m.YY*s,
		YY: m.YX*(-s) + m.YY*c,
		X0: m.X0,
		Y0: m.Y0,
	}
}

// Apply transforms a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}

// ScaleFactor returns the geometric mean of the axis scales, used to size
// stroke widths and glyphs under non-uniform transforms.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.XX*m.YY - m.XY*m.YX))
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Stack is a current matrix plus saved copies. Backends embed it to
// implement the transform half of Surface.
type Stack struct {
	current Matrix
	saved   []Matrix
}

// NewStack creates a stack whose base transform is base.
func NewStack(base Matrix) Stack {
	return Stack{current: base}
}

// Matrix returns the current transform.
func (s *Stack) Matrix() Matrix {
	return s.current
}

// Save pushes a copy of the current transform.
func (s *Stack) Save() {
	s.saved = append(s.saved, s.current)
}

// Restore pops the last saved transform. An empty stack is left alone.
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	last := len(s.saved) - 1
	s.current = s.saved[last]
	s.saved = s.saved[:last]
}

// Depth returns the number of saved transforms.
func (s *Stack) Depth() int {
	return len(s.saved)
}

// Translate moves the origin.
func (s *Stack) Translate(dx, dy float64) {
	s.current = s.current.Translate(dx, dy)
}

// Scale scales the coordinate system.
func (s *Stack) Scale(sx, sy float64) {
	s.current = s.current.Scale(sx, sy)
}

// Rotate turns the coordinate system by degrees.
func (s *Stack) Rotate(degrees float64) {
	s.current = s.current.Rotate(degrees * math.Pi / 180)
}
