package channelfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const uploadsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <id>yt:channel:UCchan</id>
 <title>Test Channel</title>
 <entry>
  <id>yt:video:v3</id>
  <yt:videoId>v3</yt:videoId>
  <yt:channelId>UCchan</yt:channelId>
  <title>Third</title>
  <published>2026-10-03T10:00:00+00:00</published>
 </entry>
 <entry>
  <id>yt:video:v2</id>
  <title>Second, no videoId element</title>
  <published>2026-10-02T10:00:00+00:00</published>
 </entry>
 <entry>
  <id>yt:video:v3</id>
  <yt:videoId>v3</yt:videoId>
  <title>Third again</title>
 </entry>
 <entry>
  <id>tag:unrelated</id>
  <title>Not a video</title>
 </entry>
 <entry>
  <id>yt:video:v1</id>
  <yt:videoId>v1</yt:videoId>
  <title>First</title>
  <published>2026-10-01T10:00:00+00:00</published>
 </entry>
</feed>`

func TestListVideos(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feeds/videos.xml" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("channel_id")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(uploadsFeed))
	}))
	defer srv.Close()

	a := New(srv.URL, srv.Client())
	ids, err := a.ListVideos(context.Background(), "UCchan")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "UCchan" {
		t.Fatalf("unexpected channel_id query %q", gotQuery)
	}
	if got := strings.Join(ids, ","); got != "v3,v2,v1" {
		t.Fatalf("ids = %q, want v3,v2,v1", got)
	}
}

func TestListVideos_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	a := New(srv.URL, srv.Client())
	if _, err := a.ListVideos(context.Background(), "UCchan"); err == nil {
		t.Fatalf("expected error for 404 feed")
	}
}

func TestListVideos_RejectsEmptyChannel(t *testing.T) {
	a := New("", nil)
	if _, err := a.ListVideos(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty channel id")
	}
}
