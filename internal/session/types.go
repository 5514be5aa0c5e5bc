package session

import (
	"context"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/store"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/transcript"
)

// Transcriber converts a recorded audio file into text plus a detected
// language tag.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (transcript.Result, error)
}

// LLM answers a single free-text question.
type LLM interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Synthesizer renders text in the given language into a playable audio file
// and returns its path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) (string, error)
}

// TurnStore is the persisted append-only turn log.
type TurnStore interface {
	NextTimestamp() int64
	Load() ([]store.Turn, error)
	Append(turn store.Turn) error
	Patch(timestamp int64, ttsAudioPath string) error
	Find(timestamp int64) (store.Turn, bool, error)
	Clear() error
}
