// Package render draws height grids as images for inspection: a PNG heat map
// through gonum/plot and an interactive HTML heat map through go-echarts.
package render
