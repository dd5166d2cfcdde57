package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// ReadASC reads a whitespace separated point list: "X Y Z [extra columns...]"
// per line, with '#' comment lines. This is the layout of the lidar ASC
// exports, which are Z-up, so pass zUp to move Z into the vertical axis.
func ReadASC(r io.Reader, zUp bool) ([]heightmap.Point3D, error) {
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
		fields := strings.Fields(strings.ReplaceAll(row, ",", " "))
		if len(fields) < 3 {
			return nil, fmt.Errorf("asc line %d: expected at least 3 columns, got %d", lineNo, len(fields))
		}
		p, err := parseXYZ(fields[:3])
		if err != nil {
			return nil, fmt.Errorf("asc line %d: %w", lineNo, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read asc: %w", err)
	}
	if zUp {
		SwapYZ(points)
	}
	return points, nil
}

// SwapYZ converts Z-up points to Y-up in place.
func SwapYZ(points []heightmap.Point3D) {
	for i := range points {
		points[i].Y, points[i].Z = points[i].Z, points[i].Y
	}
}
