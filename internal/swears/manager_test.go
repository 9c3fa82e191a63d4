package swears

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bleep/internal/logging"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(ttl, logging.NewNop())
}

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write list file: %v", err)
	}
	return path
}

func TestLoadDefault(t *testing.T) {
	m := newTestManager(time.Minute)

	set, err := m.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if set.ID != DefaultListID {
		t.Errorf("expected id %q, got %q", DefaultListID, set.ID)
	}
	if set.Len() == 0 {
		t.Fatal("builtin list is empty")
	}
	if !set.Contains("damn") {
		t.Error("builtin list should contain damn")
	}
}

func TestLoadDefaultOverride(t *testing.T) {
	m := newTestManager(time.Minute)
	path := writeList(t, t.TempDir(), "custom_default.txt", "frigging\n")
	m.SetDefaultPath(path)

	set, err := m.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if set.Len() != 1 || !set.Contains("frigging") {
		t.Errorf("override not honored: %v", set.Words())
	}
	if set.Contains("damn") {
		t.Error("builtin words leaked into overridden default")
	}
}

func TestLoadCustomRejectsReservedIDs(t *testing.T) {
	m := newTestManager(time.Minute)
	path := writeList(t, t.TempDir(), "words.txt", "damn\n")

	for _, id := range []string{"", DefaultListID} {
		if _, err := m.LoadCustom(path, id); !errors.Is(err, ErrLoad) {
			t.Errorf("id %q: expected ErrLoad, got %v", id, err)
		}
	}
}

func TestGetUnknownList(t *testing.T) {
	m := newTestManager(time.Minute)
	if _, err := m.Get("nope"); !errors.Is(err, ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestCacheTTL(t *testing.T) {
	m := newTestManager(5 * time.Minute)

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }

	path := writeList(t, t.TempDir(), "words.txt", "damn\n")
	if _, err := m.LoadCustom(path, "custom"); err != nil {
		t.Fatalf("LoadCustom failed: %v", err)
	}

	// rewrite the backing file; within TTL the cached copy must still serve
	if err := os.WriteFile(path, []byte("hell\n"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	now = base.Add(4 * time.Minute)
	set, err := m.Get("custom")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !set.Contains("damn") || set.Contains("hell") {
		t.Errorf("expected cached copy within TTL, got %v", set.Words())
	}

	// past the TTL the entry expires and the source is re-read
	now = base.Add(6 * time.Minute)
	set, err = m.Get("custom")
	if err != nil {
		t.Fatalf("Get after expiry failed: %v", err)
	}
	if !set.Contains("hell") || set.Contains("damn") {
		t.Errorf("expected reload after TTL, got %v", set.Words())
	}
}

func TestInvalidate(t *testing.T) {
	m := newTestManager(time.Hour)

	path := writeList(t, t.TempDir(), "words.txt", "damn\n")
	if _, err := m.LoadCustom(path, "custom"); err != nil {
		t.Fatalf("LoadCustom failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("hell\n"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	m.Invalidate("custom")

	set, err := m.Get("custom")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !set.Contains("hell") {
		t.Errorf("expected reload after Invalidate, got %v", set.Words())
	}
}

func TestAvailable(t *testing.T) {
	m := newTestManager(time.Minute)
	dir := t.TempDir()

	for _, id := range []string{"zeta", "alpha"} {
		path := writeList(t, dir, id+".txt", "damn\n")
		if _, err := m.LoadCustom(path, id); err != nil {
			t.Fatalf("LoadCustom %s failed: %v", id, err)
		}
	}

	got := m.Available()
	want := []string{DefaultListID, "alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	m := newTestManager(time.Minute)
	dir := t.TempDir()

	words := []string{"damn", "hell", ""}

	t.Run("text", func(t *testing.T) {
		dest := filepath.Join(dir, "out.txt")
		if err := m.Save(words, dest, FormatPlainText); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		set, err := m.LoadCustom(dest, "reloaded")
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if set.Len() != 2 || !set.Contains("damn") || !set.Contains("hell") {
			t.Errorf("round trip lost words: %v", set.Words())
		}
	})

	t.Run("json", func(t *testing.T) {
		dest := filepath.Join(dir, "out.json")
		if err := m.Save(words, dest, FormatJSON); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		set, err := m.LoadCustom(dest, "reloaded-json")
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if set.Source != FormatJSON {
			t.Errorf("expected JSON source format, got %s", set.Source)
		}
		if !set.Contains("damn") || !set.Contains("hell") {
			t.Errorf("round trip lost words: %v", set.Words())
		}
	})
}
