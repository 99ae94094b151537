package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/virtonen/youtube-transcript-scraper/internal/ports"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/channelfeed"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/endpoint"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/localfile"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/watchpage"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/youtubeapi"
	"github.com/virtonen/youtube-transcript-scraper/internal/usecase"
)

const (
	SourceSearch = "search"
	SourceFeed   = "feed"

	DefaultOutPath = "all_transcripts.txt"
)

type Config struct {
	ChannelID string
	APIKey    string
	Languages []string
	OutPath   string
	// Source picks the channel lister: SourceSearch (Data API, full history)
	// or SourceFeed (uploads feed, recent videos only).
	Source string

	Report io.Writer
	Logger *slog.Logger

	// Endpoint overrides. Empty means the public YouTube endpoints.
	APIBaseURL   string
	WatchBaseURL string
	FeedBaseURL  string
	AllowedHosts []string

	// HTTPClient is used for the watch page and feed requests.
	HTTPClient *http.Client
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ChannelID) == "" {
		return errors.New("channel id is required (pass it as an argument or set YOUTUBE_CHANNEL_ID)")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("YOUTUBE_API_KEY is required (set it in .env)")
	}
	if len(cleanLanguages(c.Languages)) == 0 {
		return errors.New("at least one transcript language is required")
	}
	if strings.TrimSpace(c.OutPath) == "" {
		return errors.New("output path is empty")
	}
	switch c.Source {
	case "", SourceSearch, SourceFeed:
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceSearch, SourceFeed)
	}
	if err := endpoint.DataAPI.Validate(c.APIBaseURL, c.AllowedHosts); err != nil {
		return err
	}
	if err := endpoint.WatchPage.Validate(c.WatchBaseURL, c.AllowedHosts); err != nil {
		return err
	}
	return endpoint.Feed.Validate(c.FeedBaseURL, c.AllowedHosts)
}

// Run validates cfg, wires the adapters and writes the artifact. Configuration
// errors are returned before any network call.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	report := cfg.Report
	if report == nil {
		report = io.Discard
	}

	api, err := youtubeapi.New(ctx, cfg.APIKey, cfg.APIBaseURL)
	if err != nil {
		return err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var lister ports.VideoLister = api
	if cfg.Source == SourceFeed {
		lister = channelfeed.New(cfg.FeedBaseURL, client)
	}

	uc := usecase.New(usecase.Deps{
		Lister:      lister,
		Transcripts: watchpage.New(cfg.WatchBaseURL, client),
		Titles:      api,
		Sink:        localfile.New(cfg.OutPath),
	})

	res, err := uc.Run(ctx, usecase.Input{
		ChannelID: strings.TrimSpace(cfg.ChannelID),
		Languages: cleanLanguages(cfg.Languages),
		Report:    report,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(report, "\nFinished! %d of %d transcripts saved to %s\n", res.Saved, res.Listed, cfg.OutPath)
	return nil
}

func cleanLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ensure adapters implement ports
var _ ports.VideoLister = (*youtubeapi.Adapter)(nil)
var _ ports.TitleFetcher = (*youtubeapi.Adapter)(nil)
var _ ports.VideoLister = (*channelfeed.Adapter)(nil)
var _ ports.TranscriptFetcher = (*watchpage.Adapter)(nil)
var _ ports.ArtifactSink = (*localfile.Sink)(nil)
