package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/meshheight/internal/heightmap"
)

// DefaultMaxCells caps the number of cells sent to the browser.
const DefaultMaxCells = 40000

// viridis ramp, low to high.
var heightColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// NewHeatMapChart builds an echarts heat map of grid. Grids with more than
// maxCells cells are sampled with a uniform stride along both axes.
func NewHeatMapChart(grid heightmap.HeightGrid, size int, title string, maxCells int) (*charts.HeatMap, error) {
	if err := checkGrid(grid, size); err != nil {
		return nil, err
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}

	labels, data, minH, maxH := sampleGrid(grid, size, maxCells)
	if minH == maxH {
		maxH = minH + 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Heightmap", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("size=%d cells=%d", size, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Column (X)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels, Name: "Row (Z)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minH),
			Max:        float32(maxH),
			InRange:    &opts.VisualMapInRange{Color: heightColors},
		}),
	)
	hm.SetXAxis(labels).AddSeries("height", data)
	return hm, nil
}

// WriteHTML renders the heat map page to w.
func WriteHTML(w io.Writer, grid heightmap.HeightGrid, size int, title string) error {
	hm, err := NewHeatMapChart(grid, size, title, DefaultMaxCells)
	if err != nil {
		return err
	}
	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SaveHTML writes the HTML heat map to path, creating parent directories.
func SaveHTML(path string, grid heightmap.HeightGrid, size int, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHTML(f, grid, size, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sampleGrid picks every stride-th cell along both axes so that at most
// roughly maxCells points are emitted, and reports the sampled height range.
func sampleGrid(grid heightmap.HeightGrid, size, maxCells int) ([]string, []opts.HeatMapData, float64, float64) {
	stride := 1
	if size*size > maxCells {
		stride = int(math.Ceil(math.Sqrt(float64(size*size) / float64(maxCells))))
	}

	var labels []string
	for i := 0; i < size; i += stride {
		labels = append(labels, strconv.Itoa(i))
	}

	minH, maxH := math.Inf(1), math.Inf(-1)
	data := make([]opts.HeatMapData, 0, len(labels)*len(labels))
	for ri, row := 0, 0; row < size; ri, row = ri+1, row+stride {
		for ci, col := 0, 0; col < size; ci, col = ci+1, col+stride {
			h := grid[heightmap.Index(col, row, size)]
			minH = math.Min(minH, h)
			maxH = math.Max(maxH, h)
			data = append(data, opts.HeatMapData{Value: [3]interface{}{ci, ri, h}})
		}
	}
	return labels, data, minH, maxH
}
