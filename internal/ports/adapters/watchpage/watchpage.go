package watchpage

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/virtonen/youtube-transcript-scraper/internal/ports"
	"github.com/virtonen/youtube-transcript-scraper/internal/ports/adapters/endpoint"
	"github.com/virtonen/youtube-transcript-scraper/internal/types"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "

	maxWatchPageBytes = 6 << 20
	maxTimedTextBytes = 4 << 20
)

// Adapter reads caption tracks from the video watch page and downloads the
// chosen track as timedtext XML.
type Adapter struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, client *http.Client) *Adapter {
	baseURL = endpoint.Normalize(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Adapter{baseURL: baseURL, client: client}
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// FetchTranscript returns the transcript of the first preferred language that
// has a usable track. ports.ErrNoTranscript is returned when the video has no
// captions or none in the requested languages.
func (a *Adapter) FetchTranscript(ctx context.Context, videoID string, languages []string) (types.Transcript, error) {
	page, err := a.get(ctx, a.baseURL+"/watch?v="+url.QueryEscape(videoID), maxWatchPageBytes)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("watch page: %w", err)
	}

	raw, err := findPlayerResponse(page)
	if err != nil {
		return types.Transcript{}, err
	}
	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return types.Transcript{}, fmt.Errorf("decode player response: %w", err)
	}
	if pr.Captions == nil {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return types.Transcript{}, fmt.Errorf("%w: %s", ports.ErrNoTranscript, pr.PlayabilityStatus.Reason)
		}
		return types.Transcript{}, fmt.Errorf("%w: captions are disabled", ports.ErrNoTranscript)
	}

	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	track, ok := pickTrack(tracks, languages)
	if !ok {
		return types.Transcript{}, fmt.Errorf("%w: no track for languages %v", ports.ErrNoTranscript, languages)
	}

	trackURL, err := a.resolve(track.BaseURL)
	if err != nil {
		return types.Transcript{}, err
	}
	body, err := a.get(ctx, trackURL, maxTimedTextBytes)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("timedtext: %w", err)
	}
	segs, err := parseTimedText(body)
	if err != nil {
		return types.Transcript{}, err
	}
	if len(segs) == 0 {
		return types.Transcript{}, fmt.Errorf("%w: empty caption track", ports.ErrNoTranscript)
	}

	return types.Transcript{
		VideoID:   videoID,
		Language:  track.LanguageCode,
		Generated: track.Kind == "asr",
		Segments:  segs,
	}, nil
}

func (a *Adapter) get(ctx context.Context, u string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// resolve makes relative caption URLs absolute against the watch base URL.
func (a *Adapter) resolve(trackURL string) (string, error) {
	if trackURL == "" {
		return "", fmt.Errorf("%w: caption track has no url", ports.ErrNoTranscript)
	}
	base, err := url.Parse(a.baseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(trackURL)
	if err != nil {
		return "", fmt.Errorf("parse caption url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// findPlayerResponse locates the inline script carrying the player response
// and returns its JSON object.
func findPlayerResponse(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var raw []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		raw = extractJSON([]byte(text[idx+len(playerResponseMarker):]))
		return raw == nil
	})
	if raw == nil {
		return nil, fmt.Errorf("ytInitialPlayerResponse not found in watch page")
	}
	return raw, nil
}

// extractJSON returns the leading balanced JSON object of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// needsPoToken reports whether a caption track URL can only be fetched by a
// browser holding a proof-of-origin token.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack walks the preferred languages in order. Within a language a manual
// track beats an auto-generated one.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, lang := range languages {
		var generated *captionTrack
		for i := range tracks {
			t := tracks[i]
			if t.LanguageCode != lang || needsPoToken(t.BaseURL) {
				continue
			}
			if t.Kind != "asr" {
				return t, true
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, true
		}
	}
	return captionTrack{}, false
}

func parseTimedText(body []byte) ([]types.Segment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segs := make([]types.Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanText(line.Text)
		if text == "" {
			continue
		}
		segs = append(segs, types.Segment{
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
			Text:     text,
		})
	}
	return segs, nil
}

// cleanText decodes the HTML entities left after XML decoding and drops
// inline markup such as <font> or <i>.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
