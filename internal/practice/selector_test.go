package practice

import (
	"fmt"
	"testing"

	"github.com/ascendprep/ascend/internal/curriculum"
	"github.com/ascendprep/ascend/internal/question"
)

func fp(v float64) *float64 { return &v }

// chapterPool builds a pool with n questions per band for one chapter.
func chapterPool(n int) []question.Question {
	var pool []question.Question
	add := func(band string, b float64) {
		for i := 0; i < n; i++ {
			pool = append(pool, question.Question{
				ID:      fmt.Sprintf("%s-%d", band, i),
				Subject: curriculum.SubjectPhysics,
				Chapter: "Optics",
				Type:    question.TypeNumerical,
				B:       fp(b + float64(i)*0.01),
			})
		}
	}
	add("easy", 0.3)
	add("medium", 0.9)
	add("hard", 1.5)
	return pool
}

func TestSelectBandOrdering(t *testing.T) {
	pool := chapterPool(6)
	out := Select(pool, nil, 15)
	if len(out) != 15 {
		t.Fatalf("len(out) = %d, want 15", len(out))
	}

	// Strictly easy -> medium -> hard.
	lastBand := -1
	for i, q := range out {
		b := bandOf(&q)
		if b < lastBand {
			t.Fatalf("band order regressed at position %d: band %d after %d", i, b, lastBand)
		}
		lastBand = b
	}

	// Roughly a third from each band, easy first.
	counts := [bandCount]int{}
	for _, q := range out {
		counts[bandOf(&q)]++
	}
	if counts[bandEasy] != 5 || counts[bandMedium] != 5 || counts[bandHard] != 5 {
		t.Errorf("band counts = %v, want [5 5 5]", counts)
	}
}

func TestSelectPriorityOrdering(t *testing.T) {
	pool := chapterPool(5)
	history := History{
		"easy-0": true,  // seen, correct
		"easy-1": false, // seen, wrong
		// easy-2..4 unseen
	}

	out := Select(pool, history, 15)

	// Every unseen question outranks every previously-correct question
	// within the easy band.
	posOf := make(map[string]int)
	for i, q := range out {
		posOf[q.ID] = i
	}
	for _, unseen := range []string{"easy-2", "easy-3", "easy-4"} {
		if posOf[unseen] > posOf["easy-0"] {
			t.Errorf("unseen %s at %d ranked below previously-correct easy-0 at %d", unseen, posOf[unseen], posOf["easy-0"])
		}
	}
	// Previously-wrong outranks previously-correct.
	if posOf["easy-1"] > posOf["easy-0"] {
		t.Errorf("previously-wrong easy-1 at %d ranked below previously-correct easy-0 at %d", posOf["easy-1"], posOf["easy-0"])
	}
}

func TestSelectBackfill(t *testing.T) {
	// Only 2 hard questions: the hard share backfills from easier bands.
	var pool []question.Question
	pool = append(pool, chapterPool(6)[:12]...) // 6 easy + 6 medium
	pool = append(pool,
		question.Question{ID: "hard-0", Type: question.TypeNumerical, B: fp(1.5)},
		question.Question{ID: "hard-1", Type: question.TypeNumerical, B: fp(1.6)},
	)

	out := Select(pool, nil, 15)
	if len(out) != 14 {
		// 6 easy + 6 medium + 2 hard = 14 total available.
		t.Fatalf("len(out) = %d, want 14 (whole pool)", len(out))
	}

	lastBand := -1
	for i, q := range out {
		b := bandOf(&q)
		if b < lastBand {
			t.Fatalf("band order regressed at position %d after backfill", i)
		}
		lastBand = b
	}
}

func TestSelectSmallTarget(t *testing.T) {
	out := Select(chapterPool(4), nil, 5)
	if len(out) != 5 {
		t.Fatalf("len(out) = %d, want 5", len(out))
	}
	// Remainder slots go to the easier bands: 2/2/1.
	counts := [bandCount]int{}
	for _, q := range out {
		counts[bandOf(&q)]++
	}
	if counts[bandEasy] != 2 || counts[bandMedium] != 2 || counts[bandHard] != 1 {
		t.Errorf("band counts = %v, want [2 2 1]", counts)
	}
}

func TestSelectEmptyInputs(t *testing.T) {
	if out := Select(nil, nil, 10); out != nil {
		t.Errorf("Select(nil pool) = %v, want nil", out)
	}
	if out := Select(chapterPool(3), nil, 0); out != nil {
		t.Errorf("Select(target 0) = %v, want nil", out)
	}
}
