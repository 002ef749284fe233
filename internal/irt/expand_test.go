package irt

import (
	"testing"
	"time"

	"github.com/ascendprep/ascend/internal/curriculum"
)

func TestExpandBroadChapters(t *testing.T) {
	now := time.Now()

	estimates := map[string]Estimate{
		"physics_mechanics":  NewEstimate("physics_mechanics", 0.6, 10, now),
		"physics_kinematics": NewEstimate("physics_kinematics", 0.9, 8, now),
		"physics_optics":     NewEstimate("physics_optics", 0.5, 4, now),
	}

	out := ExpandBroadChapters(estimates, curriculum.BroadChildren)

	if _, ok := out["physics_mechanics"]; ok {
		t.Error("broad chapter key should be dropped after expansion")
	}

	// Direct data takes precedence over derived data for the same key.
	kin, ok := out["physics_kinematics"]
	if !ok {
		t.Fatal("physics_kinematics missing from expanded estimates")
	}
	if kin.IsDerived {
		t.Error("physics_kinematics should keep its direct (non-derived) estimate")
	}
	if kin.Attempts != 8 {
		t.Errorf("physics_kinematics Attempts = %d, want 8", kin.Attempts)
	}

	// Children without direct data inherit the broad estimate, marked derived.
	for _, child := range []string{"physics_laws_of_motion", "physics_work_energy_power", "physics_rotational_motion", "physics_gravitation"} {
		est, ok := out[child]
		if !ok {
			t.Fatalf("%s missing from expanded estimates", child)
		}
		if !est.IsDerived {
			t.Errorf("%s should be marked derived", child)
		}
		if est.ChapterKey != child {
			t.Errorf("%s carries wrong chapter key %q", child, est.ChapterKey)
		}
		if est.Attempts != 10 {
			t.Errorf("%s Attempts = %d, want 10 (from broad)", child, est.Attempts)
		}
	}

	// Unrelated direct chapters pass through untouched.
	if opt := out["physics_optics"]; opt.IsDerived || opt.Attempts != 4 {
		t.Errorf("physics_optics altered by expansion: %+v", opt)
	}
}

func TestExpandBroadChaptersNoBroad(t *testing.T) {
	now := time.Now()
	estimates := map[string]Estimate{
		"chemistry_mole_concept": NewEstimate("chemistry_mole_concept", 0.7, 6, now),
	}
	out := ExpandBroadChapters(estimates, curriculum.BroadChildren)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if est := out["chemistry_mole_concept"]; est.IsDerived {
		t.Error("direct estimate should not be marked derived")
	}
}
