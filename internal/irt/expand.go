package irt

// ExpandBroadChapters distributes each broad chapter's estimate onto its
// specific sub-chapters, marking the copies as derived. A specific chapter
// that already carries direct data is left untouched: direct data always
// takes precedence over derived data for the same key.
//
// The broad entry itself is dropped from the result; once expanded it is
// only a label, and keeping it would double-count its weight in aggregates.
func ExpandBroadChapters(estimates map[string]Estimate, children func(key string) []string) map[string]Estimate {
	out := make(map[string]Estimate, len(estimates))

	// Direct entries first so precedence checks below see them.
	for key, est := range estimates {
		if len(children(key)) == 0 {
			out[key] = est
		}
	}

	for key, est := range estimates {
		kids := children(key)
		if len(kids) == 0 {
			continue
		}
		for _, child := range kids {
			if existing, ok := out[child]; ok && !existing.IsDerived {
				continue
			}
			derived := est
			derived.ChapterKey = child
			derived.IsDerived = true
			out[child] = derived
		}
	}

	return out
}
