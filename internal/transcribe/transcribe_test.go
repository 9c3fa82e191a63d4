package transcribe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bleep/internal/media"
	"bleep/internal/transcript"
)

// fakeTranscriber serves canned word sequences keyed by chunk path.
type fakeTranscriber struct {
	words map[string][]transcript.Word
	errs  map[string]error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) ([]transcript.Word, error) {
	if err := f.errs[audioPath]; err != nil {
		return nil, err
	}
	return f.words[audioPath], nil
}

func chunk(index int, path string, startSeconds float64) media.ChunkInfo {
	return media.ChunkInfo{
		Path:      path,
		Index:     index,
		StartTime: time.Duration(startSeconds * float64(time.Second)),
	}
}

func TestTranscribeChunksMergesInOrder(t *testing.T) {
	fake := &fakeTranscriber{
		words: map[string][]transcript.Word{
			"a": {{Text: "first", Start: 0.5, End: 1.0}},
			"b": {{Text: "second", Start: 0.2, End: 0.6}},
			"c": {{Text: "third", Start: 1.0, End: 1.5}},
		},
	}
	chunks := []media.ChunkInfo{
		chunk(2, "c", 120),
		chunk(0, "a", 0),
		chunk(1, "b", 60),
	}

	words, err := TranscribeChunks(context.Background(), fake, chunks, 2)
	if err != nil {
		t.Fatalf("TranscribeChunks failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}

	wantTexts := []string{"first", "second", "third"}
	wantStarts := []float64{0.5, 60.2, 121.0}
	for i, w := range words {
		if w.Text != wantTexts[i] {
			t.Errorf("word %d = %q, want %q", i, w.Text, wantTexts[i])
		}
		if w.Start != wantStarts[i] {
			t.Errorf("word %d start = %v, want %v", i, w.Start, wantStarts[i])
		}
	}
}

func TestTranscribeChunksPropagatesError(t *testing.T) {
	chunkErr := fmt.Errorf("%w: quota exceeded", ErrTranscription)
	fake := &fakeTranscriber{
		words: map[string][]transcript.Word{
			"a": {{Text: "ok"}},
		},
		errs: map[string]error{"b": chunkErr},
	}
	chunks := []media.ChunkInfo{chunk(0, "a", 0), chunk(1, "b", 60)}

	_, err := TranscribeChunks(context.Background(), fake, chunks, 2)
	if !errors.Is(err, ErrTranscription) {
		t.Errorf("expected ErrTranscription, got %v", err)
	}
}

func TestTranscribeChunksEmpty(t *testing.T) {
	words, err := TranscribeChunks(context.Background(), &fakeTranscriber{}, nil, 2)
	if err != nil {
		t.Fatalf("TranscribeChunks failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("expected no words, got %d", len(words))
	}
}

func TestOffsetWords(t *testing.T) {
	in := []transcript.Word{
		{Text: "a", Start: 0.5, End: 1.0},
		{Text: "b", Start: 1.5, End: 2.0},
	}
	out := offsetWords(in, 60)

	if out[0].Start != 60.5 || out[0].End != 61.0 {
		t.Errorf("word 0 = [%v, %v], want [60.5, 61]", out[0].Start, out[0].End)
	}
	if out[1].Start != 61.5 || out[1].End != 62.0 {
		t.Errorf("word 1 = [%v, %v], want [61.5, 62]", out[1].Start, out[1].End)
	}
	// the input slice must not be mutated
	if in[0].Start != 0.5 {
		t.Errorf("input mutated: %v", in[0].Start)
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	if _, err := Factory(context.Background(), "whisperx", "key", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
