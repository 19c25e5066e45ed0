// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript retrieves YouTube caption tracks through the
// public timedtext endpoint and flattens them into plain text.
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/helioLJ/VideoInsightAI/internal/httputil"
	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// timedtextBase is the caption endpoint. Declared as a var so tests can
// substitute an httptest server.
var timedtextBase = "https://video.google.com/timedtext"

// defaultLanguages is the preferred caption language order when the
// config does not specify one. Any listed track is a fallback.
var defaultLanguages = []string{"en", "pt"}

const defaultTimeout = 30 * time.Second

// ErrNoTranscript indicates the video has no caption track at all.
// Callers treat it as a per-item failure, not a batch abort.
var ErrNoTranscript = errors.New("no transcript available")

// trackList is the timedtext response to a type=list query.
type trackList struct {
	Tracks []track `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
}

// captionDoc is a single caption track: timed text cues with
// HTML-escaped bodies.
type captionDoc struct {
	Texts []captionText `xml:"text"`
}

type captionText struct {
	Body string `xml:",chardata"`
}

// Fetcher retrieves transcripts for individual videos.
type Fetcher struct {
	client *http.Client
	cfg    types.TranscriptConfig
}

// NewFetcher builds a Fetcher from config, applying defaults for the
// timeout and language preference.
func NewFetcher(cfg types.TranscriptConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = defaultLanguages
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Fetch returns the flattened transcript text for a video: one caption
// cue per line, entities unescaped. It prefers the configured languages
// in order and falls back to the first available track. A video with no
// tracks returns ErrNoTranscript.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	lang, err := f.pickTrack(ctx, videoID)
	if err != nil {
		return "", err
	}

	doc, err := f.fetchTrack(ctx, videoID, lang)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, cue := range doc.Texts {
		if text := strings.TrimSpace(html.UnescapeString(cue.Body)); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w for video %s: empty %s track", ErrNoTranscript, videoID, lang)
	}
	return strings.Join(lines, "\n"), nil
}

// pickTrack lists available caption tracks and picks the best language.
func (f *Fetcher) pickTrack(ctx context.Context, videoID string) (string, error) {
	q := url.Values{"type": {"list"}, "v": {videoID}}
	list, err := f.get(ctx, q)
	if err != nil {
		return "", fmt.Errorf("listing caption tracks for %s: %w", videoID, err)
	}

	var tl trackList
	if err := xml.Unmarshal(list, &tl); err != nil {
		return "", fmt.Errorf("parsing track list for %s: %w", videoID, err)
	}
	if len(tl.Tracks) == 0 {
		return "", fmt.Errorf("%w for video %s", ErrNoTranscript, videoID)
	}

	for _, want := range f.cfg.Languages {
		for _, tr := range tl.Tracks {
			if tr.LangCode == want {
				return tr.LangCode, nil
			}
		}
	}
	return tl.Tracks[0].LangCode, nil
}

// fetchTrack downloads one caption track.
func (f *Fetcher) fetchTrack(ctx context.Context, videoID, lang string) (*captionDoc, error) {
	q := url.Values{"v": {videoID}, "lang": {lang}}
	body, err := f.get(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching %s captions for %s: %w", lang, videoID, err)
	}

	var doc captionDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s captions for %s: %w", lang, videoID, err)
	}
	return &doc, nil
}

// get performs one timedtext request with throttle-aware retry.
func (f *Fetcher) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, timedtextBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from timedtext", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
