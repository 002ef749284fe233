package curriculum

import (
	"fmt"
	"strings"
)

// Subject represents one of the three exam subjects.
type Subject string

const (
	SubjectPhysics     Subject = "physics"
	SubjectChemistry   Subject = "chemistry"
	SubjectMathematics Subject = "mathematics"
)

// AllSubjects returns all subjects in display order.
func AllSubjects() []Subject {
	return []Subject{SubjectPhysics, SubjectChemistry, SubjectMathematics}
}

// ParseSubject converts a raw string into a Subject.
func ParseSubject(s string) (Subject, error) {
	switch Subject(strings.ToLower(strings.TrimSpace(s))) {
	case SubjectPhysics:
		return SubjectPhysics, nil
	case SubjectChemistry:
		return SubjectChemistry, nil
	case SubjectMathematics:
		return SubjectMathematics, nil
	}
	return "", fmt.Errorf("unknown subject: %q", s)
}

// SubjectDisplayName returns a human-readable name for a subject.
func SubjectDisplayName(s Subject) string {
	switch s {
	case SubjectPhysics:
		return "Physics"
	case SubjectChemistry:
		return "Chemistry"
	case SubjectMathematics:
		return "Mathematics"
	default:
		return string(s)
	}
}

// ChapterKeyFor derives the canonical chapter key for a subject and chapter
// name: "{subject}_{chapter}", lowercase, spaces and hyphens as underscores.
// Punctuation and the connective "and" are dropped, so "Work, Energy and
// Power" keys as "physics_work_energy_power".
func ChapterKeyFor(subject Subject, chapter string) string {
	c := strings.ToLower(strings.TrimSpace(chapter))
	c = strings.ReplaceAll(c, "-", " ")

	var b strings.Builder
	for _, r := range c {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		}
	}

	words := make([]string, 0, 8)
	for _, w := range strings.Fields(b.String()) {
		if w == "and" {
			continue
		}
		words = append(words, w)
	}
	return string(subject) + "_" + strings.Join(words, "_")
}

// SubjectOfKey extracts the subject from a chapter key.
// Returns an error if the key prefix is not a known subject.
func SubjectOfKey(key string) (Subject, error) {
	idx := strings.Index(key, "_")
	if idx <= 0 {
		return "", fmt.Errorf("malformed chapter key: %q", key)
	}
	return ParseSubject(key[:idx])
}
