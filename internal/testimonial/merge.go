package testimonial

// Merge adds the incoming testimonials whose ID isn't already known to the existing ones.
// Existing testimonials win on an ID clash, so hand edits to the data file survive a sync.
// The result is ordered the way Fetch orders it with pending testimonials included.
func Merge(existing, incoming []Testimonial) ([]Testimonial, int) {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]Testimonial, 0, len(existing)+len(incoming))

	for _, t := range existing {
		if t.ID != "" {
			seen[t.ID] = true
		}
		merged = append(merged, t)
	}

	added := 0
	for _, t := range incoming {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
		added++
	}

	return arrange(merged, FetchOptions{IncludePending: true}), added
}
