// Package session sequences capture, transcription, completion, persistence
// and on-demand synthesis into conversational turns.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/lang"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/llm"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/store"
)

var (
	// ErrTurnAbandoned means transcription yielded nothing usable; the voice
	// turn was dropped without persisting anything.
	ErrTurnAbandoned = errors.New("voice turn abandoned: no usable transcript")
	// ErrEmptyQuestion rejects a text turn with no question text.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrTurnNotFound means no persisted turn carries the given timestamp.
	ErrTurnNotFound = errors.New("turn not found")
	// ErrNotSpeakable rejects synthesis for a turn whose answer is missing or
	// still the pending placeholder.
	ErrNotSpeakable = errors.New("turn has no speakable answer")
)

// Session orchestrates one conversational turn at a time:
// voice turns run transcription -> completion -> append, text turns skip
// transcription, and SpeakAnswer fills the synthesis cache on demand.
// Each stage must finish before the next starts; the store itself serializes
// concurrent mutations from overlapping turns.
type Session struct {
	transcriber Transcriber
	llm         LLM
	tts         Synthesizer
	turns       TurnStore
}

func New(t Transcriber, l LLM, s Synthesizer, turns TurnStore) *Session {
	return &Session{transcriber: t, llm: l, tts: s, turns: turns}
}

// answer runs the completion and applies the degrade policy: a failed
// completion becomes the fallback answer so the turn is still created.
func (s *Session) answer(ctx context.Context, question string) string {
	reply, err := s.llm.Ask(ctx, question)
	if err != nil {
		log.Printf("completion failed, substituting fallback: %v", err)
		return llm.FallbackAnswer
	}
	return llm.RewritePersona(reply)
}

// VoiceTurn transcribes a finalized recording, answers the recognized text
// and persists the turn. An empty or failed transcript abandons the turn:
// nothing is persisted and ErrTurnAbandoned is returned for the caller to
// surface as a notice.
func (s *Session) VoiceTurn(ctx context.Context, audioPath string) (store.Turn, error) {
	res, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.Printf("transcription failed, abandoning turn: %v", err)
		return store.Turn{}, fmt.Errorf("%w: %v", ErrTurnAbandoned, err)
	}
	if strings.TrimSpace(res.Text) == "" {
		log.Printf("transcription empty, abandoning turn")
		return store.Turn{}, ErrTurnAbandoned
	}

	turn := store.Turn{
		Question:       res.Text,
		Answer:         s.answer(ctx, res.Text),
		AudioPath:      audioPath,
		IsAudioMessage: true,
		LanguageCode:   res.LanguageCode,
		Timestamp:      s.turns.NextTimestamp(),
	}
	if err := s.turns.Append(turn); err != nil {
		return store.Turn{}, err
	}
	return turn, nil
}

// TextTurn answers typed question text and persists the turn. The language
// code defaults to "en" when the caller does not supply one.
func (s *Session) TextTurn(ctx context.Context, question, languageCode string) (store.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return store.Turn{}, ErrEmptyQuestion
	}
	if languageCode == "" {
		languageCode = lang.DefaultTranscript
	}

	turn := store.Turn{
		Question:       question,
		Answer:         s.answer(ctx, question),
		IsAudioMessage: false,
		LanguageCode:   languageCode,
		Timestamp:      s.turns.NextTimestamp(),
	}
	if err := s.turns.Append(turn); err != nil {
		return store.Turn{}, err
	}
	return turn, nil
}

// SpeakAnswer returns a playable rendering of the turn's answer. The cached
// path is reused when present; otherwise the answer is synthesized once and
// the path patched into the store before playback.
func (s *Session) SpeakAnswer(ctx context.Context, timestamp int64) (string, error) {
	turn, ok, err := s.turns.Find(timestamp)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrTurnNotFound
	}
	if turn.Answer == "" || turn.Answer == store.PendingAnswer {
		return "", ErrNotSpeakable
	}
	if turn.TTSAudioPath != "" {
		return turn.TTSAudioPath, nil
	}

	path, err := s.tts.Synthesize(ctx, turn.Answer, turn.LanguageCode)
	if err != nil {
		return "", err
	}
	if err := s.turns.Patch(timestamp, path); err != nil {
		return "", err
	}
	return path, nil
}

// History returns all persisted turns in insertion order.
func (s *Session) History() ([]store.Turn, error) {
	return s.turns.Load()
}

// ClearHistory destroys the whole persisted log.
func (s *Session) ClearHistory() error {
	return s.turns.Clear()
}
