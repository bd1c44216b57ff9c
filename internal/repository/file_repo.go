package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
)

type FileSQLite struct {
	db *sql.DB
}

func NewFileSQLite(db *sql.DB) *FileSQLite {
	return &FileSQLite{db: db}
}

// Ensure implementation of Files interface at compile time.
var _ Files = (*FileSQLite)(nil)

const (
	insertFileSQL = `
		INSERT INTO log_files (id, owner_id, name, size_bytes, header, curves, depth_curve, depth_guessed, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectFileSQL = `
		SELECT id, owner_id, name, size_bytes, header, curves, depth_curve, depth_guessed, uploaded_at
		FROM log_files WHERE id=? AND owner_id=?
	`

	selectFileMetaSQL = `
		SELECT id, owner_id, name, size_bytes, depth_curve, depth_guessed, uploaded_at
		FROM log_files WHERE owner_id=? ORDER BY uploaded_at DESC
	`

	deleteFileSQL = `DELETE FROM log_files WHERE id=? AND owner_id=?`

	selectExpiredSQL = `
		SELECT id, owner_id, name, size_bytes, depth_curve, depth_guessed, uploaded_at
		FROM log_files WHERE uploaded_at < ?
	`

	deleteExpiredSQL = `DELETE FROM log_files WHERE uploaded_at < ?`
)

// Save inserts one uploaded file. Header and curves are stored as JSON
// columns; files are immutable once written.
func (r *FileSQLite) Save(ctx context.Context, f models.LogFile) error {
	headerJSON, err := json.Marshal(f.Header)
	if err != nil {
		return fmt.Errorf("marshal header for %q: %w", f.ID, err)
	}
	curvesJSON, err := json.Marshal(f.Curves)
	if err != nil {
		return fmt.Errorf("marshal curves for %q: %w", f.ID, err)
	}

	// uploaded_at is always persisted as UTC; set if zero
	tsUTC := f.UploadedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err = r.db.ExecContext(ctx, insertFileSQL,
		f.ID,
		f.OwnerID,
		f.Name,
		f.SizeBytes,
		string(headerJSON),
		string(curvesJSON),
		f.DepthCurve,
		f.DepthGuessed,
		tsUTC,
	)
	return err
}

// Get fetches one file with header and curves decoded.
func (r *FileSQLite) Get(ctx context.Context, ownerID int, id string) (models.LogFile, error) {
	row := r.db.QueryRowContext(ctx, selectFileSQL, id, ownerID)

	var (
		f          models.LogFile
		headerJSON string
		curvesJSON string
	)
	if err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.SizeBytes,
		&headerJSON,
		&curvesJSON,
		&f.DepthCurve,
		&f.DepthGuessed,
		&f.UploadedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LogFile{}, ErrNotFound
		}
		return models.LogFile{}, err
	}

	if headerJSON != "" {
		if err := json.Unmarshal([]byte(headerJSON), &f.Header); err != nil {
			return models.LogFile{}, fmt.Errorf("decode header for %q: %w", id, err)
		}
	}
	f.Curves = models.NewCurveSet()
	if err := json.Unmarshal([]byte(curvesJSON), f.Curves); err != nil {
		return models.LogFile{}, fmt.Errorf("decode curves for %q: %w", id, err)
	}
	f.UploadedAt = f.UploadedAt.UTC()

	return f, nil
}

// List returns the owner's files without header or curve payloads.
func (r *FileSQLite) List(ctx context.Context, ownerID int) ([]models.LogFile, error) {
	rows, err := r.db.QueryContext(ctx, selectFileMetaSQL, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LogFile, 0, 8)
	for rows.Next() {
		f, err := scanFileMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one file owned by ownerID. ErrNotFound when nothing matched.
func (r *FileSQLite) Delete(ctx context.Context, ownerID int, id string) error {
	res, err := r.db.ExecContext(ctx, deleteFileSQL, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes all files uploaded before cutoff and returns
// their metadata, for the retention sweep's audit trail.
func (r *FileSQLite) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]models.LogFile, error) {
	cutoffUTC := cutoff.UTC()

	rows, err := r.db.QueryContext(ctx, selectExpiredSQL, cutoffUTC)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expired := make([]models.LogFile, 0, 8)
	for rows.Next() {
		f, err := scanFileMeta(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	if _, err := r.db.ExecContext(ctx, deleteExpiredSQL, cutoffUTC); err != nil {
		return nil, err
	}
	return expired, nil
}

// scanFileMeta reads a metadata-only row (no header/curves columns).
func scanFileMeta(rows *sql.Rows) (models.LogFile, error) {
	var f models.LogFile
	if err := rows.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.SizeBytes,
		&f.DepthCurve,
		&f.DepthGuessed,
		&f.UploadedAt,
	); err != nil {
		return models.LogFile{}, err
	}
	f.UploadedAt = f.UploadedAt.UTC()
	return f, nil
}
