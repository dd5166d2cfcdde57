package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// maxLineBytes bounds a single line of any text mesh format.
const maxLineBytes = 1024 * 1024

// ReadOBJ returns the vertex positions ("v x y z [w]" lines) of a Wavefront OBJ stream.
func ReadOBJ(r io.Reader) ([]heightmap.Point3D, error) {
	var points []heightmap.Point3D
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		fields := strings.Fields(row)
		if fields[0] != "v" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates, got %d", lineNo, len(fields)-1)
		}
		p, err := parseXYZ(fields[1:4])
		if err != nil {
			return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return points, nil
}

func parseXYZ(fields []string) (heightmap.Point3D, error) {
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return heightmap.Point3D{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		v[i] = x
	}
	return heightmap.Point3D{X: v[0], Y: v[1], Z: v[2]}, nil
}
