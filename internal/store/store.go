// Package store persists the append-only chat turn log.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/kv"
)

// historyKey is the single logical record the whole log lives under.
const historyKey = "chatHistory"

// PendingAnswer marks a turn whose reply has not arrived yet. A turn carrying
// it is displayable but not eligible for speech synthesis.
const PendingAnswer = "Processing voice message..."

// ErrCorruptStore is returned when the persisted log cannot be parsed.
// Corruption is surfaced, never silently reset to an empty log.
var ErrCorruptStore = errors.New("chat history store is corrupt")

// Turn is one persisted question/answer exchange.
type Turn struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	AudioPath      string `json:"audioPath,omitempty"`
	TTSAudioPath   string `json:"ttsAudioPath,omitempty"`
	IsAudioMessage bool   `json:"isAudioMessage"`
	LanguageCode   string `json:"languageCode"`
	Timestamp      int64  `json:"timestamp"`
}

// TurnStore is an append-only log of turns stored as one JSON blob in kv.
// All mutations are serialized behind mu so overlapping turns cannot lose
// writes to the read-modify-write cycle.
type TurnStore struct {
	kv *kv.Store

	mu     sync.Mutex
	lastTS int64
}

func New(kvs *kv.Store) *TurnStore {
	return &TurnStore{kv: kvs}
}

// NextTimestamp issues a unique, strictly increasing unix-milli timestamp.
// Timestamps double as the turn's primary key, so two turns created within
// the same millisecond must still differ.
func (s *TurnStore) NextTimestamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := time.Now().UnixMilli()
	if ts <= s.lastTS {
		ts = s.lastTS + 1
	}
	s.lastTS = ts
	return ts
}

// Load returns all persisted turns in insertion order, or an empty slice when
// nothing has been persisted yet.
func (s *TurnStore) Load() ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *TurnStore) loadLocked() ([]Turn, error) {
	raw, ok, err := s.kv.Get(historyKey)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if !ok {
		return []Turn{}, nil
	}
	var turns []Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return turns, nil
}

func (s *TurnStore) saveLocked(turns []Turn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}
	if err := s.kv.Set(historyKey, raw); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	return nil
}

// Append adds a turn at the end of the log.
func (s *TurnStore) Append(turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, err := s.loadLocked()
	if err != nil {
		return err
	}
	turns = append(turns, turn)
	return s.saveLocked(turns)
}

// Patch attaches a synthesized audio path to the turn with the given
// timestamp. Unknown timestamps leave the log unchanged.
func (s *TurnStore) Patch(timestamp int64, ttsAudioPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, err := s.loadLocked()
	if err != nil {
		return err
	}
	patched := false
	for i := range turns {
		if turns[i].Timestamp == timestamp {
			turns[i].TTSAudioPath = ttsAudioPath
			patched = true
			break
		}
	}
	if !patched {
		return nil
	}
	return s.saveLocked(turns)
}

// Find returns the turn with the given timestamp.
func (s *TurnStore) Find(timestamp int64) (Turn, bool, error) {
	turns, err := s.Load()
	if err != nil {
		return Turn{}, false, err
	}
	for _, t := range turns {
		if t.Timestamp == timestamp {
			return t, true, nil
		}
	}
	return Turn{}, false, nil
}

// Clear removes the whole persisted log.
func (s *TurnStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(historyKey); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}
