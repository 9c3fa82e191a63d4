package media

import (
	"fmt"
	"strings"

	"bleep/internal/cleaner"
)

// fade length used to soften the edges of each muted interval
const fadeDuration = "5ms"

// muteFilter renders an -af chain that silences each interval, fading out at
// the interval start and back in at its end.
func muteFilter(intervals []cleaner.EditInterval) string {
	var parts []string
	for i, iv := range intervals {
		// fade back in until the next interval begins; past the last
		// interval one second is plenty
		nextStart := iv.End + 1.0
		if i+1 < len(intervals) {
			nextStart = intervals[i+1].Start
		}

		parts = append(parts,
			fmt.Sprintf("afade=enable='between(t,%.3f,%.3f)':t=out:st=%.3f:d=%s",
				iv.Start, iv.End, iv.Start, fadeDuration),
			fmt.Sprintf("afade=enable='between(t,%.3f,%.3f)':t=in:st=%.3f:d=%s",
				iv.End, nextStart, iv.End, fadeDuration),
		)
	}
	return strings.Join(parts, ",")
}

// toneFilter renders a -filter_complex graph that silences each interval on
// the program track and mixes a sine tone of the same length in its place.
func toneFilter(intervals []cleaner.EditInterval) string {
	var (
		mutes  []string
		sines  []string
		delays []string
		mixIn  []string
	)

	for i, iv := range intervals {
		duration := iv.End - iv.Start
		delayMs := int(iv.Start * 1000)

		mutes = append(mutes,
			fmt.Sprintf("volume=enable='between(t,%.3f,%.3f)':volume=0", iv.Start, iv.End))
		sines = append(sines,
			fmt.Sprintf("sine=f=%d:duration=%.3f[beep%d]", iv.ToneHz, duration, i+1))
		// stereo adelay needs the offset once per channel
		delays = append(delays,
			fmt.Sprintf("[beep%d]atrim=0:%.3f,adelay=%d|%d[beep%d_delayed]",
				i+1, duration, delayMs, delayMs, i+1))
		mixIn = append(mixIn, fmt.Sprintf("[beep%d_delayed]", i+1))
	}

	weights := strings.TrimSuffix(strings.Repeat("1 ", len(intervals)+1), " ")

	return fmt.Sprintf(
		"[0:a]%s[mute];%s;%s;[mute]%samix=inputs=%d:normalize=false:dropout_transition=0:weights=%s",
		strings.Join(mutes, ","),
		strings.Join(sines, ";"),
		strings.Join(delays, ";"),
		strings.Join(mixIn, ""),
		len(intervals)+1,
		weights,
	)
}
