package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// heightGridXYZ adapts a row-major height grid to plotter.GridXYZ.
// Columns run along X and rows along Z.
type heightGridXYZ struct {
	grid heightmap.HeightGrid
	size int
}

func (g heightGridXYZ) Dims() (c, r int)   { return g.size, g.size }
func (g heightGridXYZ) Z(c, r int) float64 { return g.grid[heightmap.Index(c, r, g.size)] }
func (g heightGridXYZ) X(c int) float64    { return float64(c) }
func (g heightGridXYZ) Y(r int) float64    { return float64(r) }

func checkGrid(grid heightmap.HeightGrid, size int) error {
	if size <= 0 || len(grid) != size*size {
		return fmt.Errorf("grid has %d cells, want %d for size %d", len(grid), size*size, size)
	}
	return nil
}

// NewPlot builds a heat map plot of grid.
func NewPlot(grid heightmap.HeightGrid, size int, title string) (*plot.Plot, error) {
	if err := checkGrid(grid, size); err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column (X)"
	p.Y.Label.Text = "Row (Z)"

	hm := plotter.NewHeatMap(heightGridXYZ{grid: grid, size: size}, palette.Heat(16, 1))
	if hm.Min == hm.Max {
		// flat terrain; give the palette a non-zero range
		hm.Max = hm.Min + 1
	}
	p.Add(hm)
	return p, nil
}

// WritePNG renders grid as a square PNG of the given edge length.
func WritePNG(w io.Writer, grid heightmap.HeightGrid, size int, title string, edge vg.Length) error {
	p, err := NewPlot(grid, size, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(edge, edge, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG writes the PNG heat map to path, creating parent directories.
func SavePNG(path string, grid heightmap.HeightGrid, size int, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, grid, size, title, 8*vg.Inch); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
