package curriculum

import (
	"fmt"
	"slices"
	"sort"
)

// BaselineWeight is the curriculum-importance weight assigned to chapters
// without an explicit entry in the weight table.
const BaselineWeight = 1.0

// MaxUnlockStep is the final step of the 24-month countdown schedule.
// At this step every chapter is unlocked regardless of its scheduled step.
const MaxUnlockStep = 24

// MasteryPercentile is the percentile at or above which a learner is
// considered to have mastered a chapter or the overall curriculum.
const MasteryPercentile = 85.0

// Chapter is a single node of the authored chapter taxonomy.
//
// Broad chapters span several specific sub-chapters; they appear as labels
// on authored questions but carry no unlock step of their own. Their theta
// data is distributed onto Children during assessment processing.
type Chapter struct {
	Key        string
	Subject    Subject
	Name       string
	Weight     float64
	UnlockStep int      // 1-24; 0 for broad chapters
	Broad      bool
	Children   []string // specific chapter keys, broad chapters only
}

// taxonomy holds the chapter set with precomputed indices.
type taxonomy struct {
	chapters  []Chapter
	byKey     map[string]*Chapter
	bySubject map[Subject][]Chapter
	byStep    map[int][]string
}

// tax is the package-level taxonomy singleton, set by init() in seed.go.
var tax *taxonomy

// buildTaxonomy constructs the taxonomy and its indices.
func buildTaxonomy(chapters []Chapter) *taxonomy {
	t := &taxonomy{
		chapters:  chapters,
		byKey:     make(map[string]*Chapter, len(chapters)),
		bySubject: make(map[Subject][]Chapter),
		byStep:    make(map[int][]string),
	}
	for i := range t.chapters {
		c := &t.chapters[i]
		t.byKey[c.Key] = c
		t.bySubject[c.Subject] = append(t.bySubject[c.Subject], *c)
		if !c.Broad {
			t.byStep[c.UnlockStep] = append(t.byStep[c.UnlockStep], c.Key)
		}
	}
	for step := range t.byStep {
		sort.Strings(t.byStep[step])
	}
	return t
}

// GetChapter returns a chapter by key, or an error if not found.
func GetChapter(key string) (Chapter, error) {
	c, ok := tax.byKey[key]
	if !ok {
		return Chapter{}, fmt.Errorf("chapter not found: %q", key)
	}
	return *c, nil
}

// AllChapters returns every chapter in the taxonomy.
func AllChapters() []Chapter {
	return slices.Clone(tax.chapters)
}

// ChaptersBySubject returns the chapters of one subject in seed order.
func ChaptersBySubject(s Subject) []Chapter {
	return slices.Clone(tax.bySubject[s])
}

// Weight returns the curriculum-importance weight for a chapter key.
// Unknown chapters get the baseline weight.
func Weight(key string) float64 {
	if c, ok := tax.byKey[key]; ok {
		return c.Weight
	}
	return BaselineWeight
}

// IsBroad reports whether key names a broad chapter.
func IsBroad(key string) bool {
	c, ok := tax.byKey[key]
	return ok && c.Broad
}

// BroadChildren returns the specific sub-chapter keys of a broad chapter,
// or nil if key is not a broad chapter.
func BroadChildren(key string) []string {
	c, ok := tax.byKey[key]
	if !ok || !c.Broad {
		return nil
	}
	return slices.Clone(c.Children)
}

// UnlockedAtStep returns the cumulative, sorted set of specific chapter keys
// scheduled at or before the given countdown step. At MaxUnlockStep or
// beyond, every chapter is unlocked.
func UnlockedAtStep(step int) []string {
	var keys []string
	for i := range tax.chapters {
		c := &tax.chapters[i]
		if c.Broad {
			continue
		}
		if step >= MaxUnlockStep || c.UnlockStep <= step {
			keys = append(keys, c.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
