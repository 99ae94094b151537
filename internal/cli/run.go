package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/virtonen/youtube-transcript-scraper/internal/pipeline"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/endpoint"
)

func run(cmd *cobra.Command, channelID string) error {
	outPath, _ := cmd.Flags().GetString("out")
	langs, _ := cmd.Flags().GetStringSlice("lang")
	source, _ := cmd.Flags().GetString("source")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if channelID == "" {
		channelID = os.Getenv("YOUTUBE_CHANNEL_ID")
	}

	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := pipeline.Config{
		ChannelID: channelID,
		APIKey:    os.Getenv("YOUTUBE_API_KEY"),
		Languages: langs,
		OutPath:   outPath,
		Source:    source,
		Report:    cmd.OutOrStdout(),
		Logger:    logger,

		APIBaseURL:   os.Getenv(endpoint.DataAPI.Env),
		WatchBaseURL: os.Getenv(endpoint.WatchPage.Env),
		FeedBaseURL:  os.Getenv(endpoint.Feed.Env),
		AllowedHosts: endpoint.SplitHosts(os.Getenv(endpoint.AllowedHostsEnv)),
	}

	return pipeline.Run(cmd.Context(), cfg)
}

