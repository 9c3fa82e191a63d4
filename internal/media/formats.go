package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// encodeSpec carries the ffmpeg encoding parameters for one output container.
type encodeSpec struct {
	Codec     string
	Bitrate   string
	Quality   string // vorbis qscale
	Container string // explicit -f override (m4b needs ipod)
}

var encodeSpecs = map[string]encodeSpec{
	"flac": {Codec: "flac"},
	"m4a":  {Codec: "aac", Bitrate: "128k"},
	"m4b":  {Codec: "aac", Bitrate: "128k", Container: "ipod"},
	"aac":  {Codec: "aac", Bitrate: "128k"},
	"mp3":  {Codec: "libmp3lame", Bitrate: "128k"},
	"ogg":  {Codec: "libvorbis", Quality: "5"},
	"opus": {Codec: "libopus", Bitrate: "128k"},
	"ac3":  {Codec: "ac3", Bitrate: "128k"},
	"wav":  {Codec: "pcm_s16le"},
}

// Supported reports whether the engine can encode the given container.
func Supported(format string) bool {
	_, ok := encodeSpecs[strings.ToLower(strings.TrimPrefix(format, "."))]
	return ok
}

// SupportedFormats returns the encodable containers in sorted order.
func SupportedFormats() []string {
	out := make([]string, 0, len(encodeSpecs))
	for f := range encodeSpecs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".m4b":  true,
	".ac3":  true,
	".wma":  true,
	".aiff": true,
}

// IsVideoFile checks the extension against known video containers.
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// IsAudioFile checks the extension against known audio containers.
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// IsMediaFile checks if the file is either audio or video.
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
