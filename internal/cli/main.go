package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/virtonen/youtube-transcript-scraper/internal/pipeline"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "yt-transcripts [channel-id]",
		Short:        "Download every available transcript of a YouTube channel into one text file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID := ""
			if len(args) == 1 {
				channelID = args[0]
			}
			return run(cmd, channelID)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", pipeline.DefaultOutPath, "Output file")
	root.Flags().StringSlice("lang", []string{"en"}, "Preferred transcript languages, in order")
	root.Flags().String("source", pipeline.SourceSearch, "Video listing source: search (full history, Data API) or feed (recent uploads)")

	root.Flags().Bool("quiet", false, "Only log warnings")
	_ = root.Flags().MarkHidden("quiet")

	return root
}
