package endpoint

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// AllowedHostsEnv names the variable holding extra allowed hosts. It is
// shared by every endpoint override.
const AllowedHostsEnv = "YOUTUBE_ALLOWED_HOSTS"

// Policy describes one overridable base URL.
type Policy struct {
	// Env is the variable the override comes from; used in error messages.
	Env          string
	DefaultHosts []string
}

var (
	DataAPI = Policy{
		Env:          "YOUTUBE_API_BASE_URL",
		DefaultHosts: []string{"www.googleapis.com", "youtube.googleapis.com"},
	}
	WatchPage = Policy{
		Env:          "YOUTUBE_WATCH_BASE_URL",
		DefaultHosts: []string{"www.youtube.com", "youtube.com", "m.youtube.com"},
	}
	Feed = Policy{
		Env:          "YOUTUBE_FEED_BASE_URL",
		DefaultHosts: []string{"www.youtube.com", "youtube.com"},
	}
)

// Normalize trims whitespace and trailing slashes.
func Normalize(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Validate checks an override. An empty value means "use the adapter default"
// and is always valid.
func (p Policy) Validate(baseURL string, allowedHosts []string) error {
	baseURL = Normalize(baseURL)
	if baseURL == "" {
		return nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", p.Env, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid %s %q: absolute URL with host is required", p.Env, baseURL)
	}
	if u.User != nil {
		return fmt.Errorf("invalid %s %q: userinfo is not allowed", p.Env, baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid %s %q: query and fragment are not allowed", p.Env, baseURL)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("invalid %s %q: host is required", p.Env, baseURL)
	}

	switch {
	case scheme == "https":
	case scheme == "http" && isLoopback(host):
	default:
		return fmt.Errorf("invalid %s %q: https is required", p.Env, baseURL)
	}

	allowed := p.allowedHosts(allowedHosts)
	if _, ok := allowed[host]; !ok {
		return fmt.Errorf("invalid %s %q: host %q is not in %s", p.Env, baseURL, host, AllowedHostsEnv)
	}
	return nil
}

func (p Policy) allowedHosts(extra []string) map[string]struct{} {
	out := make(map[string]struct{}, len(p.DefaultHosts)+len(extra))
	for _, h := range p.DefaultHosts {
		out[h] = struct{}{}
	}
	for _, h := range extra {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if v == "" {
			continue
		}
		if host, _, err := net.SplitHostPort(v); err == nil {
			v = host
		}
		out[v] = struct{}{}
	}
	return out
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// SplitHosts parses a comma separated host list.
func SplitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
