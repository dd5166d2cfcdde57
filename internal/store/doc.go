// Package store persists loaded height maps as snapshots in SQLite.
//
// The schema is managed with golang-migrate from migrations embedded in the
// binary. Grids are stored as gob+gzip blobs alongside the load parameters
// that produced them, so a snapshot can be restored without the source mesh.
package store
