// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog reads playlist contents and video titles from the
// YouTube Data API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

// titleBatchSize is the Data API limit on ids per videos.list call.
const titleBatchSize = 50

// Title placeholders for videos whose metadata could not be resolved.
// Stored as-is so a later run can spot and refresh them.
const (
	untitledPrefix   = "Untitled_"
	titleErrorPrefix = "ErrorFetchingTitle_"
)

// ErrNoCredentials indicates the config carries neither an API key nor
// an OAuth token file.
var ErrNoCredentials = errors.New("no YouTube credentials configured")

// Client wraps the YouTube Data API service for playlist reads.
type Client struct {
	service *youtube.Service
}

// NewClient authenticates against the Data API. An API key suffices for
// public playlists; private playlists need a stored OAuth token. Extra
// options are appended after the credential option, so tests can point
// the service at a local endpoint.
func NewClient(ctx context.Context, cfg types.CatalogConfig, extra ...option.ClientOption) (*Client, error) {
	opts, err := credentialOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

func credentialOptions(ctx context.Context, cfg types.CatalogConfig) ([]option.ClientOption, error) {
	if cfg.APIKey != "" {
		return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}, nil
	}
	if cfg.TokenFile != "" {
		tok, err := tokenFromFile(cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("loading OAuth token: %w", err)
		}
		return []option.ClientOption{
			option.WithTokenSource(oauth2.StaticTokenSource(tok)),
		}, nil
	}
	return nil, ErrNoCredentials
}

// tokenFromFile reads a stored oauth2 token in the JSON layout the
// standard oauth2 helpers write.
func tokenFromFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &tok, nil
}

// PlaylistVideoIDs returns every video id in a playlist, in playlist
// order, following pagination to the end.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(titleBatchSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing playlist %s: %w", playlistID, err)
		}

		for _, item := range resp.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// VideoTitles resolves titles for a set of video ids, batching requests
// at the API limit. Resolution is best-effort: a video missing from the
// response gets an Untitled_ placeholder and a failed batch marks all
// of its ids with ErrorFetchingTitle_, so one bad batch never loses the
// rest of the run.
func (c *Client) VideoTitles(ctx context.Context, videoIDs []string) (map[string]string, error) {
	titles := make(map[string]string, len(videoIDs))

	for start := 0; start < len(videoIDs); start += titleBatchSize {
		end := start + titleBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[start:end]

		resp, err := c.service.Videos.List([]string{"snippet"}).
			Id(strings.Join(batch, ",")).
			Context(ctx).
			Do()
		if err != nil {
			for _, id := range batch {
				titles[id] = titleErrorPrefix + id
			}
			continue
		}

		for _, item := range resp.Items {
			if item.Snippet != nil {
				titles[item.Id] = item.Snippet.Title
			}
		}
	}

	// Deleted or private videos are absent from the response.
	for _, id := range videoIDs {
		if _, ok := titles[id]; !ok {
			titles[id] = untitledPrefix + id
		}
	}
	return titles, nil
}
