package lighting

import (
	"math"

	m "github.com/Faultbox/atlasrp/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a light
// direction vector. Longitude is rotation around Y (0-360), latitude is
// elevation from the horizon (0-90). The result points towards the sun.
func SunDirection(longitude, latitude float32) m.Vec3 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	// Spherical to Cartesian conversion
	return m.Vec3{
		X: float32(math.Cos(latRad) * math.Sin(lonRad)),
		Y: float32(math.Sin(latRad)),
		Z: float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}

// SunRotation returns the rotation of a directional light shining from the
// sun at the given angles, so its forward axis is -SunDirection.
func SunRotation(longitude, latitude float32) m.Quat {
	pitch := float32(float64(latitude) * math.Pi / 180.0)
	yaw := float32(float64(longitude)*math.Pi/180.0 + math.Pi)
	return m.QuatFromEuler(pitch, yaw, 0)
}
