package dynamo

import "math"

// WrapAngle maps x into (-π, π] using modulo arithmetic, so it is exact for
// any number of turns and maps -π to π.
func WrapAngle(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x <= 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}

// AngleDiff returns the signed shortest rotation from b to a.
func AngleDiff(a, b float64) float64 {
	return WrapAngle(a - b)
}

// WrapPoseAngles returns a copy of s whose pose elements at the given
// indices are wrapped with WrapAngle. Indices outside the pose are ignored.
func WrapPoseAngles(s State, indices ...int) State {
	out := s.Clone()
	for _, i := range indices {
		if i >= 0 && i < len(out.pose) {
			out.pose[i] = WrapAngle(out.pose[i])
		}
	}
	return out
}
