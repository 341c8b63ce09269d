// Package export serializes sessions to portable formats: a structured
// record for machine consumption and a markdown transcript for humans.
// Both are pure functions of the session snapshot and the export time.
package export

import (
	"fmt"
	"strings"
	"time"

	"promptdeck/internal/domain/models"
)

// Record is the portable structured form of a session. Message role,
// content, order and timestamps are preserved exactly; only ExportedAt
// varies across calls.
type Record struct {
	Title      string           `json:"title"`
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []models.Message `json:"messages"`
}

// ToRecord builds the structured record for a session snapshot.
func ToRecord(sess models.Session, exportedAt time.Time) Record {
	messages := make([]models.Message, len(sess.Messages))
	copy(messages, sess.Messages)
	return Record{
		Title:      sess.Title,
		ExportedAt: exportedAt,
		Messages:   messages,
	}
}

// ToTranscript renders a markdown transcript: title heading, export line,
// then each message as a role label followed by its content, separated by a
// horizontal rule, in sequence order.
func ToTranscript(sess models.Session, exportedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sess.Title)
	fmt.Fprintf(&b, "*Exported: %s*\n\n---\n\n", exportedAt.Format(time.RFC1123))

	for _, msg := range sess.Messages {
		label := "**AI**"
		if msg.Role == models.RoleUser {
			label = "**You**"
		}
		fmt.Fprintf(&b, "%s:\n\n%s\n\n---\n\n", label, msg.Content)
	}
	return b.String()
}

// Filename suggests a download filename for the given format extension.
func Filename(sess models.Session, ext string) string {
	title := strings.TrimSpace(sess.Title)
	if title == "" {
		title = sess.ID
	}
	return fmt.Sprintf("%s.%s", sanitize(title), ext)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
