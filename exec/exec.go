// Package exec implements [zdchat.Recognizer] on top of an external audio
// recorder such as sox, arecord, or ffmpeg.
//
// The recorder runs under bash in its own process group and writes one
// utterance to a temporary file. The file is then handed to a
// [zdchat.Transcriber].
package exec

const (
	// FilePlaceholder marks where the recording path goes in the command.
	FilePlaceholder = "{file}"

	defaultMimeType = "audio/wav"
)

var extensions = map[string]string{
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/flac":  ".flac",
	"audio/ogg":   ".ogg",
	"audio/mpeg":  ".mp3",
	"audio/webm":  ".webm",
	"audio/aac":   ".aac",
}

func extensionFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	return ".audio"
}
