package channelfeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/endpoint"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	videoGUIDPref  = "yt:video:"
)

// Adapter lists a channel's recent uploads from its public Atom feed. The feed
// only carries the latest uploads, newest first, and has no pagination.
type Adapter struct {
	baseURL string
	parser  *gofeed.Parser
}

func New(baseURL string, client *http.Client) *Adapter {
	baseURL = endpoint.Normalize(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	p := gofeed.NewParser()
	p.Client = client
	return &Adapter{baseURL: baseURL, parser: p}
}

func (a *Adapter) ListVideos(ctx context.Context, channelID string) ([]string, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, errors.New("channel id is empty")
	}
	feedURL := a.baseURL + "/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID)
	feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse channel feed: %w", err)
	}

	ids := make([]string, 0, len(feed.Items))
	seen := map[string]struct{}{}
	for _, item := range feed.Items {
		id := videoID(item)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func videoID(item *gofeed.Item) string {
	if item == nil {
		return ""
	}
	if yt, ok := item.Extensions["yt"]; ok {
		for _, e := range yt["videoId"] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	if strings.HasPrefix(item.GUID, videoGUIDPref) {
		return strings.TrimPrefix(item.GUID, videoGUIDPref)
	}
	return ""
}
