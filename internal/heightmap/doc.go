// Package heightmap converts an unordered 3D point cloud into a dense,
// fixed-resolution grid of heights.
//
// Responsibilities: horizontal binning of points into a size x size grid,
// per-cell height averaging, gap filling from neighbouring cells, and the
// load lifecycle of a mesh-backed height map.
// Key types: Point3D, GridCoord, AveragedGrid, HeightGrid, MeshHeightMap.
//
// Dependency rule: this package knows nothing about mesh file formats,
// persistence or rendering. Point input arrives through PointSource.
package heightmap
