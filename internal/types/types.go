package types

import "strings"

type Transcript struct {
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	Generated bool      `json:"generated"`
	Segments  []Segment `json:"segments"`
}

type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Text joins segment texts with newlines in segment order. Timing is dropped.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n")
}

type Record struct {
	VideoID string
	Title   string
	Text    string
}
