package places

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/herobrain/site/internal/testimonial"
)

const (
	DefaultRole    = "Parent"
	DefaultCompany = "Google Review"
	DefaultAuthor  = "Anonymous"
	DefaultRating  = 5
)

// Palette is the set of accent colours reviews are spread over.
var Palette = []string{"#97CEC8", "#FBD66E", "#EEA27B", "#647C9F", "#E77C96"}

// Normalize shapes a review as an approved testimonial.
// The ID and colour only depend on the review so syncing twice gives the same result.
func Normalize(r Review) testimonial.Testimonial {
	rating := r.Rating
	if rating == 0 {
		rating = DefaultRating
	}

	quote := strings.TrimSpace(r.Text)

	t := testimonial.Testimonial{
		ID:      reviewID(r.Time, quote),
		Quote:   quote,
		Author:  orDefault(r.AuthorName, DefaultAuthor),
		Role:    DefaultRole,
		Company: orDefault(r.RelativeTimeDescription, DefaultCompany),
		Rating:  rating,
		Color:   Palette[abs(int64(rating)+r.Time)%int64(len(Palette))],
		Status:  testimonial.StatusApproved,
	}
	if r.Time != 0 {
		t.CreatedAt = testimonial.NewTimestamp(time.Unix(r.Time, 0).UTC())
	}

	return t
}

func NormalizeAll(rs []Review) []testimonial.Testimonial {
	ret := make([]testimonial.Testimonial, 0, len(rs))
	for _, r := range rs {
		ret = append(ret, Normalize(r))
	}

	return ret
}

func reviewID(unix int64, quote string) string {
	if unix != 0 {
		return fmt.Sprintf("google-%d", unix)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(quote))

	return fmt.Sprintf("google-%d", h.Sum64())
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}

	return s
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}

	return i
}
