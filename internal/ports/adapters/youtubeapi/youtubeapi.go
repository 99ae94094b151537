package youtubeapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/endpoint"
)

const (
	// maxPageSize is the largest page search.list serves.
	maxPageSize = 50

	videoKind = "youtube#video"
)

// Adapter serves channel listing and title lookups from the YouTube Data API.
type Adapter struct {
	key string
	svc *youtube.Service
}

// New builds a client authenticated with a static API key. baseURL overrides
// the API root (e.g. "https://www.googleapis.com/youtube/v3/") when set.
func New(ctx context.Context, apiKey, baseURL string) (*Adapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("youtube api key is empty")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if b := endpoint.Normalize(baseURL); b != "" {
		opts = append(opts, option.WithEndpoint(b+"/"))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Adapter{key: apiKey, svc: svc}, nil
}

// ListVideos pages through search results for the channel ordered by publish
// date, newest first. Non-video results are dropped and ids repeated across
// pages are kept only once.
func (a *Adapter) ListVideos(ctx context.Context, channelID string) ([]string, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, errors.New("channel id is empty")
	}

	var ids []string
	seen := map[string]struct{}{}
	pageToken := ""
	for {
		call := a.svc.Search.List("id").
			ChannelId(channelID).
			Order("date").
			MaxResults(maxPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, a.wrap("search channel videos", err)
		}

		for _, item := range res.Items {
			if item.Id == nil || item.Id.Kind != videoKind || item.Id.VideoId == "" {
				continue
			}
			if _, ok := seen[item.Id.VideoId]; ok {
				continue
			}
			seen[item.Id.VideoId] = struct{}{}
			ids = append(ids, item.Id.VideoId)
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return ids, nil
}

// VideoTitle looks up the display title of one video.
func (a *Adapter) VideoTitle(ctx context.Context, videoID string) (string, error) {
	res, err := a.svc.Videos.List("snippet").Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", a.wrap("get video "+videoID, err)
	}
	if len(res.Items) == 0 || res.Items[0].Snippet == nil {
		return "", fmt.Errorf("video %s not found", videoID)
	}
	return res.Items[0].Snippet.Title, nil
}

func (a *Adapter) wrap(op string, err error) error {
	return &redactedError{
		msg: op + ": " + redactSecrets(err.Error(), a.key),
		err: err,
	}
}

// redactedError keeps the cause reachable for errors.As while its message
// never carries the API key.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

var keyParamRE = regexp.MustCompile(`(?i)([?&]key=)[^&\s"]+`)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	return keyParamRE.ReplaceAllString(out, "${1}[REDACTED]")
}
