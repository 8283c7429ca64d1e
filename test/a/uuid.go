package a

import "github.com/google/uuid"

// LocalID returns an ID shaped like the ones given to submitted testimonials.
func LocalID() string {
	return "local-" + uuid.Must(uuid.NewV7()).String()
}
