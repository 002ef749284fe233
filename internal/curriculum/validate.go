package curriculum

import (
	"fmt"
	"strings"
)

// validateChapters performs all structural checks on the chapter taxonomy.
// Returns a combined error describing all problems found, or nil if valid.
func validateChapters(chapters []Chapter) error {
	var errs []string

	keySet := make(map[string]bool, len(chapters))
	broadSet := make(map[string]bool)

	for _, c := range chapters {
		if keySet[c.Key] {
			errs = append(errs, fmt.Sprintf("duplicate chapter key: %q", c.Key))
		}
		keySet[c.Key] = true
		if c.Broad {
			broadSet[c.Key] = true
		}

		if _, err := ParseSubject(string(c.Subject)); err != nil {
			errs = append(errs, fmt.Sprintf("chapter %q: %v", c.Key, err))
		}
		if expect := ChapterKeyFor(c.Subject, c.Name); expect != c.Key {
			errs = append(errs, fmt.Sprintf("chapter %q: key does not match name (want %q)", c.Key, expect))
		}
		if c.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("chapter %q: weight must be > 0, got %f", c.Key, c.Weight))
		}

		if c.Broad {
			if c.UnlockStep != 0 {
				errs = append(errs, fmt.Sprintf("broad chapter %q: must not carry an unlock step", c.Key))
			}
			if len(c.Children) == 0 {
				errs = append(errs, fmt.Sprintf("broad chapter %q: has no children", c.Key))
			}
		} else {
			if c.UnlockStep < 1 || c.UnlockStep > MaxUnlockStep {
				errs = append(errs, fmt.Sprintf("chapter %q: unlock step %d outside [1, %d]", c.Key, c.UnlockStep, MaxUnlockStep))
			}
			if len(c.Children) > 0 {
				errs = append(errs, fmt.Sprintf("chapter %q: only broad chapters may declare children", c.Key))
			}
		}
	}

	// Children must reference existing specific chapters of the same subject.
	for _, c := range chapters {
		if !c.Broad {
			continue
		}
		for _, child := range c.Children {
			if !keySet[child] {
				errs = append(errs, fmt.Sprintf("broad chapter %q references nonexistent child %q", c.Key, child))
				continue
			}
			if broadSet[child] {
				errs = append(errs, fmt.Sprintf("broad chapter %q references broad child %q", c.Key, child))
			}
			if !strings.HasPrefix(child, string(c.Subject)+"_") {
				errs = append(errs, fmt.Sprintf("broad chapter %q references child %q of a different subject", c.Key, child))
			}
		}
	}

	// Every subject needs at least one specific chapter unlocked at step 1,
	// otherwise the earliest assessment has nothing to draw from.
	for _, s := range AllSubjects() {
		found := false
		for _, c := range chapters {
			if c.Subject == s && !c.Broad && c.UnlockStep == 1 {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("subject %q has no chapter at unlock step 1", s))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
