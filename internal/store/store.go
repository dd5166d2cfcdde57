package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/meshheight/internal/monitoring"
	"github.com/banshee-data/meshheight/internal/timeutil"
)

// ErrSnapshotNotFound is returned when no snapshot matches a lookup.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store is a SQLite-backed snapshot store.
type Store struct {
	*sql.DB
	clock timeutil.Clock
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	monitoring.Logf("initialized heightmap snapshot store at %s", path)
	return s, nil
}

// SetClock replaces the clock used to stamp new snapshots.
func (s *Store) SetClock(c timeutil.Clock) {
	s.clock = c
}

// InsertSnapshot persists snap and returns its snapshot_id. An empty ID is
// replaced with a new uuid and a zero CreatedUnixNanos with the current time;
// both are written back to snap.
func (s *Store) InsertSnapshot(snap *Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("nil snapshot")
	}
	if snap.SnapshotID == "" {
		snap.SnapshotID = uuid.NewString()
	}
	if snap.CreatedUnixNanos == 0 {
		snap.CreatedUnixNanos = s.clock.Now().UnixNano()
	}
	stmt := `INSERT INTO heightmap_snapshot (snapshot_id, mesh_id, created_unix_nanos, size, look_around,
			 point_count, occupied_cells, empty_cells, min_height, max_height, grid_blob)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.Exec(stmt, snap.SnapshotID, snap.MeshID, snap.CreatedUnixNanos, snap.Size, snap.LookAround,
		snap.PointCount, snap.OccupiedCells, snap.EmptyCells, snap.MinHeight, snap.MaxHeight, snap.GridBlob)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return snap.SnapshotID, nil
}

const snapshotColumns = `snapshot_id, mesh_id, created_unix_nanos, size, look_around,
	point_count, occupied_cells, empty_cells, min_height, max_height, grid_blob`

// GetSnapshot returns the snapshot with the given id.
func (s *Store) GetSnapshot(id string) (*Snapshot, error) {
	row := s.QueryRow(`SELECT `+snapshotColumns+` FROM heightmap_snapshot WHERE snapshot_id = ?`, id)
	return scanSnapshot(row)
}

// LatestSnapshot returns the most recent snapshot for meshID.
func (s *Store) LatestSnapshot(meshID string) (*Snapshot, error) {
	row := s.QueryRow(`SELECT `+snapshotColumns+` FROM heightmap_snapshot
		WHERE mesh_id = ? ORDER BY created_unix_nanos DESC LIMIT 1`, meshID)
	return scanSnapshot(row)
}

// ListSnapshotIDs returns the snapshot ids for meshID, newest first.
func (s *Store) ListSnapshotIDs(meshID string) ([]string, error) {
	rows, err := s.Query(`SELECT snapshot_id FROM heightmap_snapshot
		WHERE mesh_id = ? ORDER BY created_unix_nanos DESC`, meshID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.SnapshotID, &snap.MeshID, &snap.CreatedUnixNanos, &snap.Size, &snap.LookAround,
		&snap.PointCount, &snap.OccupiedCells, &snap.EmptyCells, &snap.MinHeight, &snap.MaxHeight, &snap.GridBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return &snap, nil
}
