package grip

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Slerp interpolates along the shortest arc from a to b. The parameter is
// clamped to [0, 1], so a final tick that overshoots the blend duration lands
// exactly on b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}

func sameOrientation(a, b mgl64.Quat, eps float64) bool {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return la == lb
	}
	d := math.Abs(a.Dot(b)) / (la * lb)
	return 1-d <= eps
}
