package transcript

import "time"

// Word is one transcribed token with timing and confidence. The JSON tags
// are the persisted wire format, one object per word. Suppress is the only
// mutable field; the cleaner sets it during matching.
type Word struct {
	Text       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"conf"`
	Suppress   bool    `json:"scrub"`
}

// Duration returns the spoken length of the word in seconds.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Record is an ordered word sequence tagged with its source filename.
// Never mutated after creation; suppression passes only flip in-memory
// Suppress flags, a stored transcript is not rewritten.
type Record struct {
	Words     []Word
	Source    string
	CreatedAt time.Time
}

// TotalDuration returns the end time of the last word in seconds.
func (r *Record) TotalDuration() float64 {
	if len(r.Words) == 0 {
		return 0
	}
	return r.Words[len(r.Words)-1].End
}
