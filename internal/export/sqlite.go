// Package export converts a fully-read manifest into downstream formats.
// Exporters only ever read `(Meta, []Record)`; they never write back to
// the manifest.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"imgeda/internal/manifest"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS manifest_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    input_dir TEXT NOT NULL,
    schema_version INTEGER NOT NULL,
    total_files INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    settings TEXT
);
CREATE TABLE IF NOT EXISTS image_records (
    path TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    file_size_bytes INTEGER NOT NULL,
    mtime_ns INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    format TEXT,
    color_mode TEXT,
    num_channels INTEGER,
    aspect_ratio REAL,
    phash TEXT,
    dhash TEXT,
    is_corrupt INTEGER NOT NULL,
    is_dark INTEGER NOT NULL,
    is_overexposed INTEGER NOT NULL,
    has_border_artifact INTEGER NOT NULL,
    analyzed_at TEXT,
    analyzer_version TEXT
);
CREATE INDEX IF NOT EXISTS idx_image_records_phash ON image_records(phash);
`

// ToSQLite writes meta and records into a SQLite database at dbPath,
// creating the schema as needed and replacing any previous export of the
// same paths. The whole export is one transaction.
func ToSQLite(ctx context.Context, dbPath string, meta *manifest.Meta, records []manifest.Record) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create export schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export transaction: %w", err)
	}
	defer tx.Rollback()

	if meta != nil {
		settings, err := json.Marshal(meta.Settings)
		if err != nil {
			return fmt.Errorf("encode header settings: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO manifest_meta (
                id, input_dir, schema_version, total_files, created_at, settings
            ) VALUES (1, ?, ?, ?, ?, ?)`,
			meta.InputDir, meta.SchemaVersion, meta.TotalFiles, meta.CreatedAt, string(settings),
		)
		if err != nil {
			return fmt.Errorf("insert header: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO image_records (
            path, filename, file_size_bytes, mtime_ns,
            width, height, format, color_mode, num_channels, aspect_ratio,
            phash, dhash,
            is_corrupt, is_dark, is_overexposed, has_border_artifact,
            analyzed_at, analyzer_version
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.Path, rec.Filename, rec.FileSizeBytes, rec.MTimeNS,
			rec.Width, rec.Height, rec.Format, rec.ColorMode, rec.NumChannels, rec.AspectRatio,
			rec.PHash, rec.DHash,
			rec.IsCorrupt, rec.IsDark, rec.IsOverexposed, rec.HasBorderArtifact,
			rec.AnalyzedAt, rec.AnalyzerVersion,
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}
