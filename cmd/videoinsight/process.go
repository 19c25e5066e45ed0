// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/helioLJ/VideoInsightAI/internal/analysis"
	"github.com/helioLJ/VideoInsightAI/internal/catalog"
	"github.com/helioLJ/VideoInsightAI/internal/pipeline"
	"github.com/helioLJ/VideoInsightAI/internal/progress"
	"github.com/helioLJ/VideoInsightAI/internal/store"
	"github.com/helioLJ/VideoInsightAI/internal/transcript"
	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

const (
	defaultModel     = "gemini-2.0-flash"
	defaultTimeout   = 30 * time.Second
	defaultPace      = 1 * time.Second
	defaultUserAgent = "videoinsight/0.1"
)

// runs tracks batch runs started by this process so status polling has
// a stable run id to report.
var runs = progress.NewRegistry()

var processCmd = &cobra.Command{
	Use:   "process [playlist-id]",
	Short: "Analyze every video in a playlist",
	Long: `Process fetches the playlist's video list, then analyzes each video:
transcript fetch, Gemini analysis, and storage. Videos with a stored
analysis are skipped, so interrupted runs can simply be restarted.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("model", "", "Gemini model id (default "+defaultModel+")")
	processCmd.Flags().Duration("pace", 0, "wait between consecutive video attempts (default 1s)")
	processCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	processCmd.Flags().StringSlice("languages", nil, "preferred transcript languages in priority order (default en,pt)")
	processCmd.Flags().String("token-file", "", "OAuth token file for private playlists")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	playlistID := args[0]

	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.NewClient(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("setting up YouTube client: %w", err)
	}

	gen, err := analysis.NewGeminiGenerator(ctx, cfg.Analysis)
	if err != nil {
		return fmt.Errorf("setting up Gemini client: %w", err)
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	runner := &pipeline.Runner{
		Catalog:            cat,
		Transcripts:        transcript.NewFetcher(cfg.Transcript),
		Generator:          gen,
		Store:              st,
		PaceInterval:       cfg.PaceInterval,
		MaxTranscriptChars: cfg.Analysis.MaxTranscriptChars,
	}

	runID, tracker := runs.NewRun()
	fmt.Fprintf(os.Stderr, "Run %s started for playlist %s\n", runID, playlistID)

	errc := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, playlistID, tracker)
		errc <- err
	}()

	reportProgress(tracker, os.Stdout)
	return <-errc
}

// reportProgress polls the tracker and prints each message change until
// the run finishes.
func reportProgress(tracker *progress.Tracker, w *os.File) {
	last := ""
	for {
		state := tracker.Snapshot()
		if state.Message != last {
			fmt.Fprintln(w, state.Message)
			last = state.Message
		}
		if state.Done {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// pipelineConfig assembles the run config from flags, config file, and
// loaded secrets, in that precedence order.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("model")
	}
	if model == "" {
		model = defaultModel
	}

	pace, _ := cmd.Flags().GetDuration("pace")
	if pace == 0 {
		pace = viper.GetDuration("pace")
	}
	if pace == 0 {
		pace = defaultPace
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	languages, _ := cmd.Flags().GetStringSlice("languages")
	tokenFile, _ := cmd.Flags().GetString("token-file")
	if tokenFile == "" {
		tokenFile = viper.GetString("token_file")
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")

	geminiKey := loadedSecrets.Get("gemini-api-key", "GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = viper.GetString("gemini_api_key")
	}
	if geminiKey == "" {
		return types.PipelineConfig{}, fmt.Errorf("no Gemini API key: provide .secrets/gemini-api-key or GEMINI_API_KEY")
	}

	youtubeKey := loadedSecrets.Get("youtube-api-key", "YOUTUBE_API_KEY")
	if youtubeKey == "" {
		youtubeKey = viper.GetString("youtube_api_key")
	}
	if youtubeKey == "" && tokenFile == "" {
		return types.PipelineConfig{}, fmt.Errorf("no YouTube credentials: provide .secrets/youtube-api-key, YOUTUBE_API_KEY, or --token-file")
	}

	return types.PipelineConfig{
		Catalog: types.CatalogConfig{
			APIKey:    youtubeKey,
			TokenFile: tokenFile,
		},
		Transcript: types.TranscriptConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Languages: languages,
		},
		Analysis: types.AnalysisConfig{
			AIConfig: types.AIConfig{
				Model:  model,
				APIKey: geminiKey,
			},
		},
		Store: types.StoreConfig{
			DataDir: dataDir,
		},
		PaceInterval: pace,
	}, nil
}
