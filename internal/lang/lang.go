// Package lang holds the fixed set of language tags the speech services accept.
package lang

// DefaultSynthesis is the synthesis fallback when a tag is missing or unsupported.
const DefaultSynthesis = "en-IN"

// DefaultTranscript is the storage/transcription fallback when the STT service
// omits a language code.
const DefaultTranscript = "en"

// supported is the enumerated set accepted by the Sarvam TTS voices.
var supported = map[string]bool{
	"hi-IN": true,
	"bn-IN": true,
	"kn-IN": true,
	"ml-IN": true,
	"mr-IN": true,
	"od-IN": true,
	"pa-IN": true,
	"ta-IN": true,
	"te-IN": true,
	"en-IN": true,
	"gu-IN": true,
}

// Supported reports whether tag is in the fixed supported set.
func Supported(tag string) bool {
	return supported[tag]
}

// Coerce maps an arbitrary tag into the supported set, falling back to
// DefaultSynthesis for unsupported or empty input.
func Coerce(tag string) string {
	if supported[tag] {
		return tag
	}
	return DefaultSynthesis
}
