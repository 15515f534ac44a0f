package cli

import (
	"github.com/bitrise-io/go-resumable-upload/config"
	"github.com/bitrise-io/go-resumable-upload/internal"
	"github.com/bitrise-io/go-resumable-upload/resumable"
	"github.com/bitrise-io/go-resumable-upload/source"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/spf13/cobra"
)

func newUploadCmd(envRepo env.Repository, logger log.Logger, flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [apikey] [url] [file]",
		Short: "upload file to remote server",
		Long: `Upload a file to a resumable endpoint in chunks.
Chunks the server already has are skipped.

  apikey  Authorization for remote server URL
  url     Remote server URL for upload
  file    File to upload: a path, a glob matching one file, an http(s):// URL or an s3://bucket/key object`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			settings, err := flags.settings(cmd, envRepo)
			if err != nil {
				return err
			}
			logger.EnableDebugLog(settings.Debug)

			return runUpload(cmd, settings, logger, args)
		},
	}
}

func runUpload(cmd *cobra.Command, settings config.Settings, logger log.Logger, args []string) error {
	apiKey := config.Secret(args[0])
	url := args[1]

	config.Print(settings, logger)
	logger.Println()
	logger.Debugf("API key: %s", apiKey)

	resolver := source.NewResolver(
		internal.RealOS{},
		pathutil.NewPathModifier(),
		retryhttp.NewClient(logger).StandardClient(),
		source.S3Params{
			Region:          settings.AWSRegion,
			AccessKeyID:     settings.AWSAccessKeyID,
			SecretAccessKey: string(settings.AWSSecretAccessKey),
		},
		logger,
	)
	file, err := resolver.Resolve(cmd.Context(), args[2])
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Cleanup(); err != nil {
			logger.Warnf("Failed to clean up %s: %s", file.Path, err)
		}
	}()

	uploader := resumable.New(settings.Engine(), logger)
	result, err := uploader.Upload(cmd.Context(), resumable.Params{
		URL:      url,
		APIKey:   string(apiKey),
		FilePath: file.Path,
		Filename: file.Name,
	})
	if err != nil {
		return err
	}

	if result.LastChunkUploaded {
		logger.Println()
		logger.Infof("Result:")
		logger.Donef("%s", result.Body)
	}

	return nil
}
