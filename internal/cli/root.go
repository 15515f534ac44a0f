// Package cli implements the resumable-upload command line.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitrise-io/go-resumable-upload/config"
	"github.com/bitrise-io/go-resumable-upload/resumable"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

const banner = `Resumable Upload

Usage: upload [apikey] [url] [file]`

func init() {
	// The upload keyword is accepted in any case.
	cobra.EnableCaseInsensitive = true
}

// flagValues holds the settings overrides given on the command line.
type flagValues struct {
	chunkSize   string
	cursorMode  string
	chunkCount  string
	escapeQuery bool
	debug       bool
}

// NewRootCmd builds the command tree. Settings are read from envRepo and overridden by flags.
func NewRootCmd(envRepo env.Repository, logger log.Logger) *cobra.Command {
	flags := &flagValues{}

	cmd := &cobra.Command{
		Use:           "resumable-upload",
		Short:         "Upload a file in resumable chunks",
		Long:          banner,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.chunkSize, "chunk-size", "",
		fmt.Sprintf("Chunk size, e.g. 5MiB (env: %s)", config.ChunkSizeKey))
	cmd.PersistentFlags().StringVar(&flags.cursorMode, "cursor-mode", "",
		fmt.Sprintf("File cursor handling for skipped chunks: %s or %s (env: %s)", resumable.CursorSeek, resumable.CursorLegacy, config.CursorModeKey))
	cmd.PersistentFlags().StringVar(&flags.chunkCount, "chunk-count", "",
		fmt.Sprintf("Chunk count formula: %s or %s (env: %s)", resumable.ChunkCountLegacy, resumable.ChunkCountExact, config.ChunkCountKey))
	cmd.PersistentFlags().BoolVar(&flags.escapeQuery, "escape-query", true,
		fmt.Sprintf("Percent-encode query values (env: %s)", config.EscapeQueryKey))
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false,
		fmt.Sprintf("Enable debug logs (env: %s)", config.DebugKey))

	cmd.AddCommand(newUploadCmd(envRepo, logger, flags))

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	logger := log.NewLogger()

	cmd := NewRootCmd(env.NewRepository(), logger)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Errorf("Error: %s", err)
		return 1
	}
	return 0
}

// settings loads the environment settings and applies the flags set on cmd.
func (f *flagValues) settings(cmd *cobra.Command, envRepo env.Repository) (config.Settings, error) {
	settings, err := config.Load(envRepo)
	if err != nil {
		return config.Settings{}, err
	}

	changed := cmd.Flags().Changed
	if changed("chunk-size") {
		chunkSize, err := config.ParseChunkSize(f.chunkSize)
		if err != nil {
			return config.Settings{}, fmt.Errorf("--chunk-size: %w", err)
		}
		settings.ChunkSize = chunkSize
	}
	if changed("cursor-mode") {
		settings.CursorMode = resumable.CursorMode(strings.ToLower(f.cursorMode))
	}
	if changed("chunk-count") {
		settings.ChunkCount = resumable.ChunkCountMode(strings.ToLower(f.chunkCount))
	}
	if changed("escape-query") {
		settings.EscapeQuery = f.escapeQuery
	}
	if changed("debug") {
		settings.Debug = f.debug
	}

	if err := settings.Engine().Validate(); err != nil {
		return config.Settings{}, err
	}

	return settings, nil
}
