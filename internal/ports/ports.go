package ports

import (
	"context"
	"errors"
	"io"

	"github.com/virtonen/youtube-transcript-scraper/internal/types"
)

// ErrNoTranscript reports that a video has no usable transcript in any of the
// requested languages.
var ErrNoTranscript = errors.New("no transcript available")

type VideoLister interface {
	// ListVideos returns the channel's video ids, newest first.
	ListVideos(ctx context.Context, channelID string) ([]string, error)
}

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string, languages []string) (types.Transcript, error)
}

type TitleFetcher interface {
	VideoTitle(ctx context.Context, videoID string) (string, error)
}

type ArtifactSink interface {
	// Create truncates or creates the artifact. Close must flush it to disk.
	Create() (io.WriteCloser, error)
}
