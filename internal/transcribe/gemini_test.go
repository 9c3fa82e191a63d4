package transcribe

import "testing"

func TestParseWordsJSON(t *testing.T) {
	input := `[
		{"word": "the", "start": 0.1, "end": 0.3, "conf": 0.99},
		{"word": "damn", "start": 0.5, "end": 0.9, "conf": 0.87},
		{"word": "cat", "start": 1.0, "end": 1.4}
	]`

	words, err := parseWordsJSON(input)
	if err != nil {
		t.Fatalf("parseWordsJSON failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[1].Text != "damn" || words[1].Confidence != 0.87 {
		t.Errorf("word 1 = %+v", words[1])
	}
	// a missing conf field defaults to full confidence
	if words[2].Confidence != 1.0 {
		t.Errorf("word 2 confidence = %v, want 1.0", words[2].Confidence)
	}
}

func TestParseWordsJSONClampsConfidence(t *testing.T) {
	input := `[
		{"word": "low", "start": 0, "end": 1, "conf": -0.5},
		{"word": "high", "start": 1, "end": 2, "conf": 1.7}
	]`

	words, err := parseWordsJSON(input)
	if err != nil {
		t.Fatalf("parseWordsJSON failed: %v", err)
	}
	if words[0].Confidence != 0 {
		t.Errorf("negative confidence not clamped: %v", words[0].Confidence)
	}
	if words[1].Confidence != 1 {
		t.Errorf("confidence above 1 not clamped: %v", words[1].Confidence)
	}
}

func TestParseWordsJSONSkipsBlankWords(t *testing.T) {
	words, err := parseWordsJSON(`[{"word": "  ", "start": 0, "end": 1}, {"word": "ok", "start": 1, "end": 2}]`)
	if err != nil {
		t.Fatalf("parseWordsJSON failed: %v", err)
	}
	if len(words) != 1 || words[0].Text != "ok" {
		t.Errorf("words = %+v", words)
	}
}

func TestParseWordsJSONMalformed(t *testing.T) {
	if _, err := parseWordsJSON(`not json at all`); err == nil {
		t.Error("expected error")
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain",
			input: `[{"word": "ok"}]`,
			want:  `[{"word": "ok"}]`,
		},
		{
			name:  "fenced json",
			input: "```json\n[{\"word\": \"ok\"}]\n```",
			want:  `[{"word": "ok"}]`,
		},
		{
			name:  "fenced without language",
			input: "```\n[{\"word\": \"ok\"}]\n```",
			want:  `[{"word": "ok"}]`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n[{\"word\": \"ok\"}]\n  ",
			want:  `[{"word": "ok"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("truncateString = %q", got)
	}
}
