package meshio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// FileSource reads points from a mesh file each time Points is called.
// The format is chosen by extension: .obj is Wavefront OBJ; .asc, .xyz,
// .txt and .csv are column point lists.
type FileSource struct {
	Path string
	// ZUp marks files whose vertical axis is Z.
	ZUp bool
}

var _ heightmap.PointSource = (*FileSource)(nil)

// Points opens and parses the file.
func (s *FileSource) Points() ([]heightmap.Point3D, error) {
	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".obj":
		pts, err := ReadOBJ(f)
		if err != nil {
			return nil, err
		}
		if s.ZUp {
			SwapYZ(pts)
		}
		return pts, nil
	case ".asc", ".xyz", ".txt", ".csv":
		return ReadASC(f, s.ZUp)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
}

// BufferSource adapts an interleaved position buffer to heightmap.PointSource.
type BufferSource []float32

// Points unpacks the buffer.
func (b BufferSource) Points() ([]heightmap.Point3D, error) {
	return FromFloatBuffer(b)
}
