// Package store persists the shot log: viewfinder states the user captured,
// together with the depth-of-field numbers computed at capture time.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
)

// DBFile is the shot log file name inside the .viewfinder directory.
const DBFile = "shots.db"

// DB handles shot log persistence.
type DB struct {
	db *sql.DB
}

// Open opens or creates the shot log at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open shot log: %w", err)
	}

	sdb := &DB{db: db}
	if err := sdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	// Far limit and total DOF may be unbounded; they are stored as NULL and
	// round-tripped back to +Inf.
	schema := `
	CREATE TABLE IF NOT EXISTS shots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		focal_length_mm REAL NOT NULL,
		aperture REAL NOT NULL,
		focus_distance_m REAL NOT NULL,
		sensor_type TEXT NOT NULL,
		near_limit_m REAL NOT NULL,
		far_limit_m REAL,
		total_dof_m REAL,
		hyperfocal_m REAL NOT NULL,
		equivalent_focal_mm REAL NOT NULL,
		diffraction_limited INTEGER NOT NULL DEFAULT 0,
		notes TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shots_created_at ON shots(created_at);
	`
	_, err := d.db.Exec(schema)
	return err
}

// SaveShot inserts a shot and fills in its assigned ID.
func (d *DB) SaveShot(s *model.Shot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	result, err := d.db.Exec(`
		INSERT INTO shots (
			label, focal_length_mm, aperture, focus_distance_m, sensor_type,
			near_limit_m, far_limit_m, total_dof_m, hyperfocal_m,
			equivalent_focal_mm, diffraction_limited, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.Label,
		s.Camera.FocalLengthMm,
		s.Camera.Aperture,
		s.Camera.FocusDistanceM,
		string(s.Camera.SensorType),
		s.DOF.NearLimitM,
		nullableFloat(s.DOF.FarLimitM),
		nullableFloat(s.DOF.TotalDOFM),
		s.DOF.HyperfocalDistanceM,
		s.DOF.EquivalentFocalLengthMm,
		s.DOF.IsDiffractionLimited,
		s.Notes,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// ListShots returns shots newest first, up to limit (0 means no limit).
func (d *DB) ListShots(limit int) ([]model.Shot, error) {
	query := `
		SELECT id, label, focal_length_mm, aperture, focus_distance_m, sensor_type,
		       near_limit_m, far_limit_m, total_dof_m, hyperfocal_m,
		       equivalent_focal_mm, diffraction_limited, notes, created_at
		FROM shots
		ORDER BY created_at DESC, id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = d.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = d.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shots []model.Shot
	for rows.Next() {
		var s model.Shot
		var sensorType string
		var far, total sql.NullFloat64
		err := rows.Scan(
			&s.ID, &s.Label,
			&s.Camera.FocalLengthMm, &s.Camera.Aperture, &s.Camera.FocusDistanceM, &sensorType,
			&s.DOF.NearLimitM, &far, &total, &s.DOF.HyperfocalDistanceM,
			&s.DOF.EquivalentFocalLengthMm, &s.DOF.IsDiffractionLimited,
			&s.Notes, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.Camera.SensorType = optics.SensorType(sensorType)
		s.DOF.FarLimitM = floatOrInf(far)
		s.DOF.TotalDOFM = floatOrInf(total)
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// DeleteShot removes a shot by ID.
func (d *DB) DeleteShot(id int64) error {
	result, err := d.db.Exec(`DELETE FROM shots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no shot with id %d", id)
	}
	return nil
}

// CountShots returns the number of logged shots.
func (d *DB) CountShots() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM shots`).Scan(&n)
	return n, err
}

func nullableFloat(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}

func floatOrInf(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(1)
	}
	return v.Float64
}
