// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists per-video analysis records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

const dbFile = "videos.db"

// Store manages the video analysis SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at DataDir/videos.db, creating
// the schema when absent.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			video_id TEXT PRIMARY KEY,
			playlist_id TEXT,
			title TEXT,
			fetched_at TEXT,
			transcript TEXT,
			core_topic TEXT,
			summary TEXT,
			structure TEXT,
			takeaways TEXT,
			categories TEXT,
			verdict TEXT,
			justification TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_playlist_id ON videos(playlist_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert writes a video record, overwriting every field of an existing
// row. A failed earlier attempt is therefore fully replaced when the
// video is retried.
func (s *Store) Upsert(ctx context.Context, v *types.Video) error {
	takeawaysJSON, _ := json.Marshal(v.Analysis.Takeaways)
	categoriesJSON, _ := json.Marshal(v.Analysis.Categories)

	fetchedAt := v.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO videos (video_id, playlist_id, title, fetched_at, transcript,
			core_topic, summary, structure, takeaways, categories, verdict, justification)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
			playlist_id=excluded.playlist_id, title=excluded.title,
			fetched_at=excluded.fetched_at, transcript=excluded.transcript,
			core_topic=excluded.core_topic, summary=excluded.summary,
			structure=excluded.structure, takeaways=excluded.takeaways,
			categories=excluded.categories, verdict=excluded.verdict,
			justification=excluded.justification`,
		v.VideoID, v.PlaylistID, v.Title, fetchedAt.UTC().Format(time.RFC3339Nano),
		v.Transcript, v.Analysis.CoreTopic, v.Analysis.Summary, v.Analysis.Structure,
		string(takeawaysJSON), string(categoriesJSON),
		v.Analysis.Verdict, v.Analysis.Justification,
	)
	if err != nil {
		return fmt.Errorf("upserting video %s: %w", v.VideoID, err)
	}
	return nil
}

// Get returns the stored record for a video, or nil when the video has
// never been stored.
func (s *Store) Get(ctx context.Context, videoID string) (*types.Video, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` FROM videos WHERE video_id = ?`, videoID)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading video %s: %w", videoID, err)
	}
	return v, nil
}

// List returns stored records most recent first. A limit of 0 means no
// limit.
func (s *Store) List(ctx context.Context, offset, limit int) ([]*types.Video, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` FROM videos ORDER BY fetched_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	defer rows.Close()

	var videos []*types.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning video row: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM videos`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting videos: %w", err)
	}
	return n, nil
}

const selectColumns = `SELECT video_id, playlist_id, title, fetched_at, transcript,
	core_topic, summary, structure, takeaways, categories, verdict, justification`

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*types.Video, error) {
	var v types.Video
	var fetchedAt, takeawaysJSON, categoriesJSON string

	err := row.Scan(&v.VideoID, &v.PlaylistID, &v.Title, &fetchedAt, &v.Transcript,
		&v.Analysis.CoreTopic, &v.Analysis.Summary, &v.Analysis.Structure,
		&takeawaysJSON, &categoriesJSON, &v.Analysis.Verdict, &v.Analysis.Justification)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		v.FetchedAt = t
	}
	json.Unmarshal([]byte(takeawaysJSON), &v.Analysis.Takeaways)
	json.Unmarshal([]byte(categoriesJSON), &v.Analysis.Categories)
	return &v, nil
}
