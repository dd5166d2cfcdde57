// Package meshio extracts vertex positions from mesh and point-cloud files.
//
// Only positions are read: faces, normals and texture coordinates are
// skipped because the height map ignores connectivity. Every reader returns
// points with Y as the vertical axis; ZUp sources are swapped on read.
package meshio
