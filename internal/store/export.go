// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// ExportEntry is one video record in an export document.
type ExportEntry struct {
	VideoID    string              `json:"video_id" yaml:"video_id"`
	PlaylistID string              `json:"playlist_id,omitempty" yaml:"playlist_id,omitempty"`
	Title      string              `json:"title" yaml:"title"`
	FetchedAt  string              `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
	Analysis   types.VideoAnalysis `json:"analysis" yaml:"analysis"`
}

// ExportYAML writes every stored record to w as a YAML document,
// most recent first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes every stored record to w as indented JSON,
// most recent first.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	videos, err := s.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(videos))
	for i, v := range videos {
		entries[i] = ExportEntry{
			VideoID:    v.VideoID,
			PlaylistID: v.PlaylistID,
			Title:      v.Title,
			Analysis:   v.Analysis,
		}
		if !v.FetchedAt.IsZero() {
			entries[i].FetchedAt = v.FetchedAt.UTC().Format(time.RFC3339)
		}
	}
	return entries, nil
}
