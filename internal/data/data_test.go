package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"discount-leverage/internal/model"
)

func TestResultCache_PutGetExpire(t *testing.T) {
	c := NewResultCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	run := c.Put(Run{Params: model.Params{PriceA: 100}})
	if run.ID == "" || !run.CreatedAt.Equal(now) {
		t.Fatalf("Put did not assign id/time: %+v", run)
	}

	got, ok := c.Get(run.ID)
	if !ok || got.Params.PriceA != 100 {
		t.Fatalf("Get(%s) = %+v, %v", run.ID, got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown id")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(run.ID); ok {
		t.Fatalf("expected expired entry to be hidden")
	}
	if removed := c.purgeExpired(); removed != 1 || c.Len() != 0 {
		t.Fatalf("purgeExpired removed %d, len %d", removed, c.Len())
	}
}

func TestResultCache_DistinctIDs(t *testing.T) {
	c := NewResultCache(time.Minute)
	a := c.Put(Run{})
	b := c.Put(Run{})
	if a.ID == b.ID {
		t.Fatalf("ids collide: %s", a.ID)
	}
	if c.Len() != 2 {
		t.Fatalf("Len=%d, want 2", c.Len())
	}
}

func TestResultCache_CleanupStopsOnCancel(t *testing.T) {
	c := NewResultCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Cleanup did not return after cancel")
	}
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("b_console.yaml", "params:\n  name: Console bundle\n  price_a: 499\n")
	write("a_phone.yaml", "params:\n  price_a: 999\n")
	write("broken.yaml", "params: [")
	write("notes.txt", "ignored")

	presets, skipped, err := LoadPresets(dir)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("len(presets)=%d, want 2", len(presets))
	}
	if presets[0].ID != "a_phone" || presets[0].Name != "a_phone" {
		t.Fatalf("unexpected first preset: %+v", presets[0])
	}
	if presets[1].Name != "Console bundle" || presets[1].Params.PriceA != 499 {
		t.Fatalf("unexpected second preset: %+v", presets[1])
	}
	if _, ok := skipped["broken.yaml"]; !ok {
		t.Fatalf("broken.yaml should be skipped: %v", skipped)
	}
}

func TestPresetPath(t *testing.T) {
	if _, ok := PresetPath("/p", "../etc/passwd"); ok {
		t.Fatalf("traversal accepted")
	}
	got, ok := PresetPath("/p", "reference")
	if !ok || got != filepath.Join("/p", "reference.yaml") {
		t.Fatalf("PresetPath = %q, %v", got, ok)
	}
}

func TestLoadPresets_ShippedDirectory(t *testing.T) {
	presets, skipped, err := LoadPresets(filepath.Join("..", "..", "examples", "presets"))
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped presets: %v", skipped)
	}
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
		if err := p.Params.ToModelParams().Validate(); err != nil {
			t.Fatalf("preset %s invalid: %v", p.ID, err)
		}
	}
	want := []string{"flagship", "reference", "subscription"}
	for i := range want {
		if i >= len(ids) || ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}
