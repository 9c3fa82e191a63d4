package cleaner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bleep/internal/logging"
	"bleep/internal/swears"
	"bleep/internal/transcript"
)

// fakeEngine records the plan it was handed instead of running ffmpeg.
type fakeEngine struct {
	lastPlan   Plan
	lastFormat string
	applied    bool
	err        error
}

func (f *fakeEngine) Apply(ctx context.Context, inputPath string, plan Plan, outputPath, outputFormat string) (string, error) {
	f.applied = true
	f.lastPlan = plan
	f.lastFormat = outputFormat
	if f.err != nil {
		return "", f.err
	}
	return outputPath, nil
}

func (f *fakeEngine) Supports(format string) bool {
	return format == "mp3" || format == "wav"
}

func testSet(t *testing.T, words ...string) *swears.Set {
	t.Helper()
	m := swears.NewManager(0, logging.NewNop())
	path := filepath.Join(t.TempDir(), "list.json")
	if err := m.Save(words, path, swears.FormatJSON); err != nil {
		t.Fatalf("failed to save list: %v", err)
	}
	set, err := m.LoadCustom(path, "test")
	if err != nil {
		t.Fatalf("failed to load list: %v", err)
	}
	return set
}

func testRecord(words ...transcript.Word) *transcript.Record {
	return &transcript.Record{Words: words, Source: "movie.mp4"}
}

func TestMark(t *testing.T) {
	set := testSet(t, "damn", "hell")
	words := []transcript.Word{
		{Text: "the", Start: 0, End: 0.2},
		{Text: "Damn!", Start: 0.3, End: 0.6},
		{Text: "cat", Start: 0.7, End: 0.9},
		{Text: "hell", Start: 1.0, End: 1.3},
	}

	censored := Mark(words, set)

	if len(censored) != 2 {
		t.Fatalf("expected 2 censored words, got %d", len(censored))
	}
	if censored[0].Text != "Damn!" || censored[1].Text != "hell" {
		t.Errorf("censored words out of order: %+v", censored)
	}
	for i, want := range []bool{false, true, false, true} {
		if words[i].Suppress != want {
			t.Errorf("word %d Suppress = %v, want %v", i, words[i].Suppress, want)
		}
	}
}

func TestMarkClearsStaleFlags(t *testing.T) {
	set := testSet(t, "hell")
	// a reused transcript may carry flags from a run against another list
	words := []transcript.Word{
		{Text: "damn", Start: 0, End: 0.2, Suppress: true},
		{Text: "hell", Start: 0.3, End: 0.6},
	}

	censored := Mark(words, set)

	if len(censored) != 1 || censored[0].Text != "hell" {
		t.Fatalf("expected only hell censored, got %+v", censored)
	}
	if words[0].Suppress {
		t.Error("stale Suppress flag was not cleared")
	}
}

func TestMarkDeterministic(t *testing.T) {
	set := testSet(t, "damn")
	build := func() []transcript.Word {
		return []transcript.Word{
			{Text: "damn", Start: 0, End: 0.2},
			{Text: "cat", Start: 0.3, End: 0.5},
			{Text: "damn", Start: 0.6, End: 0.8},
		}
	}

	a := Mark(build(), set)
	b := Mark(build(), set)
	if len(a) != len(b) {
		t.Fatalf("runs disagree: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("word %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func newTestCleaner(engine Engine) *Cleaner {
	store := transcript.NewStore("", logging.NewNop())
	return New(engine, store, logging.NewNop())
}

func TestCleanBuildsAndAppliesPlan(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestCleaner(engine)
	set := testSet(t, "damn")

	rec := testRecord(
		transcript.Word{Text: "the", Start: 0, End: 0.3},
		transcript.Word{Text: "damn", Start: 0.5, End: 0.9},
	)

	result, err := c.Clean(context.Background(), "in.mp3", "out.mp3", rec, set, Options{})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if !engine.applied {
		t.Fatal("engine was never invoked")
	}
	if len(engine.lastPlan.Intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(engine.lastPlan.Intervals))
	}
	if result.NoOp() {
		t.Error("run with a match reported NoOp")
	}
	if result.OutputPath != "out.mp3" {
		t.Errorf("output path = %q, want out.mp3", result.OutputPath)
	}
	if len(result.Censored) != 1 || result.Censored[0].Text != "damn" {
		t.Errorf("censored = %+v", result.Censored)
	}
}

func TestCleanNoMatchesIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestCleaner(engine)
	set := testSet(t, "damn")

	rec := testRecord(
		transcript.Word{Text: "nice", Start: 0, End: 0.3},
		transcript.Word{Text: "weather", Start: 0.4, End: 0.8},
	)

	result, err := c.Clean(context.Background(), "in.mp3", "out.mp3", rec, set, Options{})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if !result.NoOp() {
		t.Error("expected NoOp result")
	}
	if !engine.applied {
		t.Error("engine should still run to produce the passthrough output")
	}
	if !engine.lastPlan.Empty() {
		t.Errorf("expected empty plan, got %+v", engine.lastPlan)
	}
}

func TestCleanEmptyTranscript(t *testing.T) {
	c := newTestCleaner(&fakeEngine{})
	set := testSet(t, "damn")

	_, err := c.Clean(context.Background(), "in.mp3", "out.mp3", testRecord(), set, Options{})
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestCleanUnsupportedFormat(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestCleaner(engine)
	set := testSet(t, "damn")
	rec := testRecord(transcript.Word{Text: "damn", Start: 0, End: 0.5})

	_, err := c.Clean(context.Background(), "in.mp3", "out.xyz", rec, set, Options{OutputFormat: "xyz"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if engine.applied {
		t.Error("engine must not run for a rejected format")
	}
}

func TestCleanEnginePropagatesError(t *testing.T) {
	engineErr := errors.New("boom")
	c := newTestCleaner(&fakeEngine{err: engineErr})
	set := testSet(t, "damn")
	rec := testRecord(transcript.Word{Text: "damn", Start: 0, End: 0.5})

	_, err := c.Clean(context.Background(), "in.mp3", "out.mp3", rec, set, Options{})
	if !errors.Is(err, engineErr) {
		t.Errorf("expected engine error, got %v", err)
	}
}

func TestCleanSavesTranscript(t *testing.T) {
	dir := t.TempDir()
	store := transcript.NewStore(dir, logging.NewNop())
	c := New(&fakeEngine{}, store, logging.NewNop())
	set := testSet(t, "damn")
	rec := testRecord(transcript.Word{Text: "damn", Start: 0, End: 0.5})

	result, err := c.Clean(context.Background(), "in.mp3", "out.mp3", rec, set, Options{SaveTranscript: true})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if result.TranscriptPath == "" {
		t.Fatal("transcript path not set")
	}

	loaded, err := store.Load(result.TranscriptPath)
	if err != nil {
		t.Fatalf("saved transcript unreadable: %v", err)
	}
	if len(loaded.Words) != 1 || !loaded.Words[0].Suppress {
		t.Errorf("saved transcript missing suppression flags: %+v", loaded.Words)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format string
		input  string
		want   string
	}{
		{"", "movie.MP3", "mp3"},
		{FormatMatch, "movie.flac", "flac"},
		{"ogg", "movie.mp3", "ogg"},
		{".wav", "movie.mp3", "wav"},
		{" OGG ", "movie.mp3", "ogg"},
	}
	for _, tt := range tests {
		if got := resolveFormat(tt.format, tt.input); got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.input, got, tt.want)
		}
	}
}
