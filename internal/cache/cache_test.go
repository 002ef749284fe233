package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetCachesWithinTTL(t *testing.T) {
	loads := 0
	c := New(time.Minute, func() (int, error) {
		loads++
		return loads, nil
	})

	clock := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		v, err := c.Get()
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if v != 1 {
			t.Fatalf("Get = %d, want cached 1", v)
		}
	}
	if loads != 1 {
		t.Errorf("loader ran %d times within TTL, want 1", loads)
	}

	// Past expiry the loader runs again.
	clock = clock.Add(2 * time.Minute)
	v, err := c.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != 2 || loads != 2 {
		t.Errorf("after expiry Get = %d (loads %d), want 2 (2)", v, loads)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	loads := 0
	c := New(time.Hour, func() (string, error) {
		loads++
		return "v", nil
	})

	if _, err := c.Get(); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	if _, err := c.Get(); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Errorf("loader ran %d times across an Invalidate, want 2", loads)
	}
}

func TestLoadErrorNotCached(t *testing.T) {
	fail := true
	loads := 0
	c := New(time.Hour, func() (int, error) {
		loads++
		if fail {
			return 0, errors.New("unavailable")
		}
		return 42, nil
	})

	if _, err := c.Get(); err == nil {
		t.Fatal("expected load error")
	}
	fail = false
	v, err := c.Get()
	if err != nil {
		t.Fatalf("Get after recovery: %v", err)
	}
	if v != 42 || loads != 2 {
		t.Errorf("Get = %d (loads %d), want 42 (2)", v, loads)
	}
}

func TestZeroTTLAlwaysLoads(t *testing.T) {
	loads := 0
	c := New(0, func() (int, error) {
		loads++
		return loads, nil
	})
	c.Get()
	c.Get()
	if loads != 2 {
		t.Errorf("loader ran %d times with zero TTL, want every call", loads)
	}
}
