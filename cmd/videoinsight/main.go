// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the videoinsight CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/helioLJ/VideoInsightAI/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the videoinsight CLI.
var rootCmd = &cobra.Command{
	Use:   "videoinsight",
	Short: "Analyze YouTube playlist videos with Gemini",
	Long: `videoinsight walks a YouTube playlist, fetches each video's transcript,
asks Gemini whether the video is worth watching, and stores the structured
analysis in a local SQLite database.

Runs are resumable: videos that already have a complete analysis are skipped,
so re-running a playlist only works on new or previously failed videos.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use .secrets/ or the environment.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./videoinsight.yaml or ~/.config/videoinsight/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding the analysis database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("videoinsight")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "videoinsight"))
		}
	}

	viper.SetEnvPrefix("VIDEOINSIGHT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
