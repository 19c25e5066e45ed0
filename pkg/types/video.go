// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Video is one unit of batch work: a playlist entry together with its
// transcript and analysis, if either could be obtained. Identity key is
// VideoID; re-processing upserts the whole record.
type Video struct {
	// VideoID is the catalog identifier (e.g. a YouTube video id).
	VideoID string `json:"video_id" yaml:"video_id"`

	// PlaylistID is the collection the video was processed under.
	PlaylistID string `json:"playlist_id" yaml:"playlist_id"`

	// Title comes from the catalog title lookup. Placeholders
	// "Untitled_<id>" / "ErrorFetchingTitle_<id>" mark lookup gaps.
	Title string `json:"title" yaml:"title"`

	// FetchedAt is when this record was written, UTC.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// Transcript is the full transcript text. Empty when retrieval failed.
	Transcript string `json:"transcript,omitempty" yaml:"transcript,omitempty"`

	// Analysis is the extracted record. Zero when the model call failed.
	Analysis VideoAnalysis `json:"analysis" yaml:"analysis"`
}

// HasAnalysis reports whether the stored record carries a usable
// analysis. The batch runner uses this for its idempotency check.
func (v *Video) HasAnalysis() bool {
	return v != nil && v.Analysis.Summary != ""
}
