package meshio

import (
	"fmt"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// FromFloatBuffer unpacks an interleaved xyz position buffer, the layout a
// GPU vertex buffer uses for positions.
func FromFloatBuffer(buf []float32) ([]heightmap.Point3D, error) {
	if len(buf)%3 != 0 {
		return nil, fmt.Errorf("position buffer length %d is not a multiple of 3", len(buf))
	}
	points := make([]heightmap.Point3D, len(buf)/3)
	for i := range points {
		points[i] = heightmap.Point3D{
			X: float64(buf[3*i]),
			Y: float64(buf[3*i+1]),
			Z: float64(buf[3*i+2]),
		}
	}
	return points, nil
}
