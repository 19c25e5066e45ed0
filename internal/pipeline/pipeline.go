// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates batch analysis of a playlist: resolve
// the item list, then fetch, analyze, and store each video with
// per-item error isolation. Re-running a playlist only touches videos
// that have no complete stored analysis.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/helioLJ/VideoInsightAI/internal/analysis"
	"github.com/helioLJ/VideoInsightAI/internal/progress"
	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// defaultPaceInterval is the wait after each attempted item, protecting
// the model API rate limit.
const defaultPaceInterval = 1 * time.Second

// Catalog resolves a playlist into video ids and titles.
type Catalog interface {
	PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	VideoTitles(ctx context.Context, videoIDs []string) (map[string]string, error)
}

// TranscriptFetcher retrieves the transcript text for one video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// VideoStore persists and recalls video records. Get returns nil for a
// video that was never stored.
type VideoStore interface {
	Get(ctx context.Context, videoID string) (*types.Video, error)
	Upsert(ctx context.Context, v *types.Video) error
}

// Runner wires the collaborators for batch runs. Every handle is
// explicit so tests can substitute fakes per field.
type Runner struct {
	Catalog     Catalog
	Transcripts TranscriptFetcher
	Generator   analysis.Generator

	Store VideoStore

	// PaceInterval overrides the wait between attempted items
	// (default 1s).
	PaceInterval time.Duration

	// MaxTranscriptChars bounds transcript text embedded in prompts.
	MaxTranscriptChars int
}

// Run processes one playlist, reporting progress through tr. Catalog
// failures abort the run; everything after that is isolated per item,
// so one broken video never stops the batch. The returned state is the
// final snapshot.
func (r *Runner) Run(ctx context.Context, playlistID string, tr *progress.Tracker) (progress.State, error) {
	tr.SetMessage("Fetching playlist...")

	videoIDs, err := r.Catalog.PlaylistVideoIDs(ctx, playlistID)
	if err != nil {
		tr.Finish(fmt.Sprintf("Error: fetching playlist failed: %v", err))
		return tr.Snapshot(), fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}
	if len(videoIDs) == 0 {
		tr.Finish("Complete: playlist is empty")
		return tr.Snapshot(), nil
	}

	tr.SetMessage("Fetching video titles...")
	titles, err := r.Catalog.VideoTitles(ctx, videoIDs)
	if err != nil {
		tr.Finish(fmt.Sprintf("Error: fetching video titles failed: %v", err))
		return tr.Snapshot(), fmt.Errorf("fetching titles for %s: %w", playlistID, err)
	}

	tr.SetTotal(len(videoIDs))

	for i, videoID := range videoIDs {
		select {
		case <-ctx.Done():
			tr.Finish("Cancelled")
			return tr.Snapshot(), ctx.Err()
		default:
		}

		title := titles[videoID]
		if title == "" {
			title = "Untitled_" + videoID
		}
		tr.StartItem(videoID, title,
			fmt.Sprintf("Processing video %d/%d: %s", i+1, len(videoIDs), title))

		attempted := r.processItem(ctx, playlistID, videoID, title, tr)
		if attempted {
			if err := r.pace(ctx); err != nil {
				tr.Finish("Cancelled")
				return tr.Snapshot(), err
			}
		}
	}

	final := tr.Snapshot()
	tr.Finish("Analysis complete. " + final.Counts())
	return tr.Snapshot(), nil
}

// processItem handles one video and updates the tally. It returns false
// only when the item was skipped without any external call, in which
// case no pacing is needed.
func (r *Runner) processItem(ctx context.Context, playlistID, videoID, title string, tr *progress.Tracker) bool {
	stored, err := r.Store.Get(ctx, videoID)
	if err != nil {
		tr.AddFailed()
		return true
	}
	if stored.HasAnalysis() {
		tr.AddSkipped()
		return false
	}

	video := &types.Video{
		VideoID:    videoID,
		PlaylistID: playlistID,
		Title:      title,
		FetchedAt:  time.Now().UTC(),
	}

	transcript, err := r.Transcripts.Fetch(ctx, videoID)
	if err != nil {
		// Record the attempt so the video shows up in listings; the
		// empty analysis makes the next run retry it.
		r.Store.Upsert(ctx, video)
		tr.AddFailed()
		return true
	}
	video.Transcript = transcript

	rec, err := r.analyze(ctx, transcript)
	if err != nil {
		r.Store.Upsert(ctx, video)
		tr.AddFailed()
		return true
	}
	video.Analysis = rec

	if err := r.Store.Upsert(ctx, video); err != nil {
		tr.AddFailed()
		return true
	}
	tr.AddProcessed()
	return true
}

// analyze runs the model call and extraction for one transcript.
func (r *Runner) analyze(ctx context.Context, transcript string) (types.VideoAnalysis, error) {
	prompt, err := analysis.BuildPrompt(transcript, r.MaxTranscriptChars)
	if err != nil {
		return types.VideoAnalysis{}, fmt.Errorf("building prompt: %w", err)
	}

	raw, err := r.Generator.Generate(ctx, prompt)
	if err != nil {
		return types.VideoAnalysis{}, fmt.Errorf("generating analysis: %w", err)
	}

	return analysis.Parse(raw), nil
}

// pace waits out the rate-limit interval, honoring cancellation.
func (r *Runner) pace(ctx context.Context) error {
	interval := r.PaceInterval
	if interval <= 0 {
		interval = defaultPaceInterval
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(interval):
		return nil
	}
}
