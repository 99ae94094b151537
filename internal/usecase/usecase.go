package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/virtonen/youtube-transcript-scraper/internal/domain/artifact"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports"
)

type Deps struct {
	Lister      ports.VideoLister
	Transcripts ports.TranscriptFetcher
	Titles      ports.TitleFetcher
	Sink        ports.ArtifactSink
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	ChannelID string
	Languages []string

	// Report receives the per-video status lines. Nil discards them.
	Report io.Writer
	Logger *slog.Logger
}

type Result struct {
	Listed  int
	Saved   int
	Skipped int
}

type TranscriptStatus int

const (
	TranscriptFound TranscriptStatus = iota
	// TranscriptAbsent: the video has no transcript in the requested languages.
	TranscriptAbsent
	// TranscriptFailed: the lookup itself failed (network, parse, ...).
	TranscriptFailed
)

func (s TranscriptStatus) String() string {
	switch s {
	case TranscriptFound:
		return "found"
	case TranscriptAbsent:
		return "absent"
	case TranscriptFailed:
		return "failed"
	default:
		return fmt.Sprintf("TranscriptStatus(%d)", int(s))
	}
}

type TranscriptResult struct {
	Status TranscriptStatus
	Text   string
	Err    error
}

// FallbackTitle is the header used when a title lookup fails.
func FallbackTitle(videoID string) string {
	return "Video ID: " + videoID
}

// Run lists the channel once, then handles each video in list order: fetch the
// transcript, and only when one exists resolve the title and append a record.
// Listing and artifact I/O errors abort the run; per-video lookup errors do not.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	report := in.Report
	if report == nil {
		report = io.Discard
	}
	log := orDiscard(in.Logger)

	ids, err := u.d.Lister.ListVideos(ctx, in.ChannelID)
	if err != nil {
		return Result{}, fmt.Errorf("list videos: %w", err)
	}
	res := Result{Listed: len(ids)}
	fmt.Fprintf(report, "Found %d videos. Fetching transcripts...\n\n", len(ids))

	out, err := u.d.Sink.Create()
	if err != nil {
		return res, err
	}
	w := artifact.NewWriter(out)

	for _, id := range ids {
		tr := u.FetchTranscript(ctx, id, in.Languages, log)
		if tr.Status != TranscriptFound {
			res.Skipped++
			fmt.Fprintf(report, "❌ Skipped %s (no transcript)\n", id)
			continue
		}

		title := u.ResolveTitle(ctx, id, log)
		if err := w.WriteRecord(title, tr.Text); err != nil {
			_ = out.Close()
			return res, err
		}
		res.Saved++
		fmt.Fprintf(report, "✅ Saved transcript for: %s\n", title)
	}

	if err := out.Close(); err != nil {
		return res, fmt.Errorf("close artifact: %w", err)
	}
	return res, nil
}

// FetchTranscript never returns an error: failures are folded into the result.
func (u Usecase) FetchTranscript(ctx context.Context, videoID string, languages []string, log *slog.Logger) TranscriptResult {
	log = orDiscard(log)
	tr, err := u.d.Transcripts.FetchTranscript(ctx, videoID, languages)
	switch {
	case errors.Is(err, ports.ErrNoTranscript):
		log.Info("no transcript", slog.String("id", videoID), slog.Any("err", err))
		return TranscriptResult{Status: TranscriptAbsent, Err: err}
	case err != nil:
		log.Warn("transcript fetch failed", slog.String("id", videoID), slog.Any("err", err))
		return TranscriptResult{Status: TranscriptFailed, Err: err}
	}

	text := tr.Text()
	if text == "" {
		log.Info("no transcript", slog.String("id", videoID), slog.String("reason", "empty text"))
		return TranscriptResult{Status: TranscriptAbsent, Err: ports.ErrNoTranscript}
	}
	return TranscriptResult{Status: TranscriptFound, Text: text}
}

// ResolveTitle returns the display title or FallbackTitle on any failure.
func (u Usecase) ResolveTitle(ctx context.Context, videoID string, log *slog.Logger) string {
	log = orDiscard(log)
	title, err := u.d.Titles.VideoTitle(ctx, videoID)
	if err != nil {
		log.Warn("could not get title", slog.String("id", videoID), slog.Any("err", err))
		return FallbackTitle(videoID)
	}
	if title == "" {
		return FallbackTitle(videoID)
	}
	return title
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
