package rates

// Allow applies the calendar-hour claim limit. stamps holds the unix
// timestamps of prior accepted claims; entries outside the hour bucket of
// now (unix/3600) are pruned. If accepting now would exceed max, the pruned
// list is returned unchanged with ok=false so a rejection leaves no trace.
func Allow(now int64, stamps []int64, max int) (kept []int64, ok bool) {
	bucket := now / 3600
	kept = stamps[:0]
	for _, s := range stamps {
		if s/3600 == bucket {
			kept = append(kept, s)
		}
	}
	if max > 0 && len(kept)+1 > max {
		return kept, false
	}
	return kept, true
}
