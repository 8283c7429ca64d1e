package testimonial

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusPending  Status = "PENDING"
)

// MaxStars is the most stars a testimonial is shown with.
const MaxStars = 5

// Testimonial is a client endorsement.
// The JSON field names are the format of the bundled data file, keep them stable.
type Testimonial struct {
	ID        string    `json:"id"`
	Quote     string    `json:"quote" validate:"required"`
	Author    string    `json:"author" validate:"required"`
	Role      string    `json:"role,omitempty"`
	Company   string    `json:"company,omitempty"`
	Rating    int       `json:"rating" validate:"min=0,max=5"`
	Color     string    `json:"color,omitempty" validate:"omitempty,iscolor"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
	Status    Status    `json:"status,omitempty" validate:"omitempty,oneof=APPROVED PENDING"`
}

// Stars is the number of filled stars to render, clamped to 0..MaxStars.
func (t Testimonial) Stars() int {
	return min(max(t.Rating, 0), MaxStars)
}

// Visible reports whether the testimonial is shown without asking for pending ones.
func (t Testimonial) Visible() bool {
	return t.Status != StatusPending
}

// Timestamp is an optional point in time, the zero value means "not set".
// It's decoded leniently: a value that can't be parsed is treated as not set.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 date or date-time, returning the zero
// Timestamp for blank or unparseable input.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}
		}
	}

	return Timestamp{}
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Not a string, so there's no date in it.
		*t = Timestamp{}
		return nil
	}

	*t = ParseTimestamp(s)

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// sortKey is milliseconds since the Unix epoch, a missing timestamp sorts as the epoch.
func (t Timestamp) sortKey() int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}
