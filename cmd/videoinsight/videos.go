// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/helioLJ/VideoInsightAI/internal/store"
	"github.com/helioLJ/VideoInsightAI/pkg/types"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Inspect stored video analyses",
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, most recent first",
	RunE:  runVideosList,
}

var videosShowCmd = &cobra.Command{
	Use:   "show [video-id]",
	Short: "Show the full analysis for one video",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideosShow,
}

var videosExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all analyses as JSON or YAML",
	RunE:  runVideosExport,
}

func init() {
	videosListCmd.Flags().Int("limit", 50, "maximum number of videos to list (0 for all)")
	videosListCmd.Flags().Int("offset", 0, "number of videos to skip")

	videosExportCmd.Flags().String("format", "json", "export format: json or yaml")
	videosExportCmd.Flags().String("output", "", "output file (default: stdout)")

	videosCmd.AddCommand(videosListCmd, videosShowCmd, videosExportCmd)
	rootCmd.AddCommand(videosCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	s, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

func runVideosList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	videos, err := s.List(cmd.Context(), offset, limit)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		fmt.Println("no videos stored")
		return nil
	}

	for _, v := range videos {
		verdict := v.Analysis.Verdict
		if !v.HasAnalysis() {
			verdict = "(analysis pending)"
		}
		fmt.Printf("%-14s %-50.50s %s\n", v.VideoID, v.Title, verdict)
	}
	return nil
}

func runVideosShow(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	v, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("video %s not found", args[0])
	}

	// Transcripts are long; show everything else.
	v.Transcript = ""
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling video: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runVideosExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return s.ExportJSON(cmd.Context(), w)
	case "yaml":
		return s.ExportYAML(cmd.Context(), w)
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
