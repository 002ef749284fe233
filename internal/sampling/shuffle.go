package sampling

// Shuffle returns a Fisher-Yates permutation of items driven by the
// generator. The input slice is not modified; the result contains exactly
// the input items, none added, dropped or duplicated.
func Shuffle[T any](items []T, g *Generator) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// maxConsecutiveSubject is the longest run of one subject permitted by
// InterleaveBySubject.
const maxConsecutiveSubject = 2

// InterleaveBySubject reorders items so no subject occurs three or more
// times consecutively, staying as close to random as the constraint allows.
// Each pick is drawn uniformly from the remaining items that both respect
// the run cap and leave the rest of the pool arrangeable under it.
//
// If at some position no item satisfies the run cap while the remaining
// pool is non-empty, the routine picks an arbitrary remaining item instead
// of looping. That situation indicates the pool composition cannot satisfy
// the constraint; the returned forced count is non-zero so the caller can
// log the invariant violation. No item is ever dropped.
func InterleaveBySubject[T any](items []T, subjectOf func(T) string, g *Generator) (out []T, forced int) {
	remaining := Shuffle(items, g)
	out = make([]T, 0, len(items))

	counts := make(map[string]int)
	for _, it := range remaining {
		counts[subjectOf(it)]++
	}

	lastSubject := ""
	runLength := 0

	for len(remaining) > 0 {
		var allowed, safe []int
		for i := range remaining {
			s := subjectOf(remaining[i])
			if s == lastSubject && runLength >= maxConsecutiveSubject {
				continue
			}
			allowed = append(allowed, i)

			newRun := 1
			if s == lastSubject {
				newRun = runLength + 1
			}
			counts[s]--
			if arrangeable(counts, len(remaining)-1, s, newRun) {
				safe = append(safe, i)
			}
			counts[s]++
		}

		var pick int
		switch {
		case len(safe) > 0:
			pick = safe[g.Intn(len(safe))]
		case len(allowed) > 0:
			pick = allowed[g.Intn(len(allowed))]
		default:
			pick = 0
			forced++
		}

		item := remaining[pick]
		s := subjectOf(item)
		if s == lastSubject {
			runLength++
		} else {
			lastSubject = s
			runLength = 1
		}
		counts[s]--

		out = append(out, item)
		remaining[pick] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}

	return out, forced
}

// arrangeable reports whether the remaining subject counts can be laid out
// with no run longer than maxConsecutiveSubject, given that the sequence
// currently ends with a run of length run of subject last. A subject with
// m items needs separators from the n-m other items: at most
// maxConsecutiveSubject per gap, minus whatever the current tail run has
// already consumed.
func arrangeable(counts map[string]int, n int, last string, run int) bool {
	for s, m := range counts {
		if m == 0 {
			continue
		}
		others := n - m
		budget := maxConsecutiveSubject * (others + 1)
		if s == last {
			budget -= run
		}
		if m > budget {
			return false
		}
	}
	return true
}
