package transcribe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"bleep/internal/media"
	"bleep/internal/transcript"
)

// ErrTranscription marks failures reported by the external transcription
// engine; callers propagate it unchanged.
var ErrTranscription = errors.New("transcription failed")

// Transcriber produces a word-level transcript of an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]transcript.Word, error)
}

// Provider selects the transcription service.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Options for transcription.
type Options struct {
	Language string // source language of the audio
	Model    string
	Prompt   string
}

// Factory creates a transcriber based on provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// holds the result of transcribing one chunk
type chunkResult struct {
	Index int
	Words []transcript.Word
	Error error
}

// TranscribeChunks runs a transcriber over audio chunks in parallel and
// merges the word sequences back into source order with absolute timestamps.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []media.ChunkInfo,
	concurrency int,
) ([]transcript.Word, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	workChan := make(chan media.ChunkInfo, len(chunks))
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for chunk := range workChan {
				words, err := transcribeChunk(ctx, t, chunk)
				resultChan <- chunkResult{
					Index: chunk.Index,
					Words: words,
					Error: err,
				}
			}
		})
	}

	for _, chunk := range chunks {
		workChan <- chunk
	}
	close(workChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	for result := range resultChan {
		if result.Error != nil {
			return nil, fmt.Errorf("chunk %d failed: %w", result.Index, result.Error)
		}
		results = append(results, result)
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var allWords []transcript.Word
	for _, r := range results {
		allWords = append(allWords, r.Words...)
	}
	return allWords, nil
}

// transcribeChunk shifts the chunk's word timestamps to absolute positions.
func transcribeChunk(
	ctx context.Context,
	t Transcriber,
	chunk media.ChunkInfo,
) ([]transcript.Word, error) {
	words, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}
	return offsetWords(words, chunk.StartTime.Seconds()), nil
}

func offsetWords(words []transcript.Word, offsetSeconds float64) []transcript.Word {
	adjusted := make([]transcript.Word, len(words))
	for i, w := range words {
		w.Start += offsetSeconds
		w.End += offsetSeconds
		adjusted[i] = w
	}
	return adjusted
}
