package json

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"parley"
)

// iso8601 matches Date.toISOString(): millisecond precision, UTC.
const iso8601 = "2006-01-02T15:04:05.000Z07:00"

// exportDTO is the download wire format.
type exportDTO struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	CreatedAt    string             `json:"createdAt"`
	UpdatedAt    string             `json:"updatedAt"`
	MessageCount int                `json:"messageCount"`
	Messages     []exportMessageDTO `json:"messages"`
}

type exportMessageDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// MarshalExport serializes an Export in the download format, with
// ISO-8601 timestamps and an explicit message count.
func MarshalExport(e parley.Export) ([]byte, error) {
	dto := exportDTO{
		ID:           e.ID,
		Title:        e.Title,
		CreatedAt:    e.CreatedAt.UTC().Format(iso8601),
		UpdatedAt:    e.UpdatedAt.UTC().Format(iso8601),
		MessageCount: len(e.Messages),
		Messages:     make([]exportMessageDTO, len(e.Messages)),
	}
	for i, m := range e.Messages {
		dto.Messages[i] = exportMessageDTO{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC().Format(iso8601),
		}
	}
	return json.MarshalIndent(dto, "", "  ")
}

var whitespace = regexp.MustCompile(`\s+`)

// ExportFilename derives the download file name from a session title
// and the export time: whitespace collapses to dashes, path separators
// are stripped, and a millisecond timestamp disambiguates.
func ExportFilename(title string, now time.Time) string {
	name := whitespace.ReplaceAllString(title, "-")
	name = strings.ReplaceAll(name, "/", "-")
	return fmt.Sprintf("%s-%d.json", name, now.UnixMilli())
}
