package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/kv"
)

func newTestStore(t *testing.T) (*TurnStore, *kv.Store) {
	t.Helper()
	kvs, err := kv.Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { _ = kvs.Close() })
	return New(kvs), kvs
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	turns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty log, got %d turns", len(turns))
	}
}

func TestAppendThenLoad(t *testing.T) {
	s, _ := newTestStore(t)
	turn := Turn{
		Question:     "How do I irrigate rice?",
		Answer:       "Keep the field flooded during tillering.",
		LanguageCode: "en",
		Timestamp:    s.NextTimestamp(),
	}
	if err := s.Append(turn); err != nil {
		t.Fatalf("append: %v", err)
	}
	turns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(turns) != 1 || turns[len(turns)-1] != turn {
		t.Fatalf("last turn mismatch: %+v", turns)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 3; i++ {
		turn := Turn{Question: "q", Answer: "a", Timestamp: s.NextTimestamp()}
		if err := s.Append(turn); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	turns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Timestamp <= turns[i-1].Timestamp {
			t.Fatalf("timestamps not increasing: %d then %d", turns[i-1].Timestamp, turns[i].Timestamp)
		}
	}
}

func TestPatch(t *testing.T) {
	s, _ := newTestStore(t)
	first := Turn{Question: "q1", Answer: "a1", Timestamp: s.NextTimestamp()}
	second := Turn{Question: "q2", Answer: "a2", Timestamp: s.NextTimestamp()}
	for _, turn := range []Turn{first, second} {
		if err := s.Append(turn); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Patch(second.Timestamp, "/data/tts-audio/tts_1.wav"); err != nil {
		t.Fatalf("patch: %v", err)
	}
	turns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if turns[0] != first {
		t.Fatalf("untouched turn changed: %+v", turns[0])
	}
	if turns[1].TTSAudioPath != "/data/tts-audio/tts_1.wav" {
		t.Fatalf("patch not applied: %+v", turns[1])
	}
}

func TestPatchUnknownTimestampIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	turn := Turn{Question: "q", Answer: "a", Timestamp: s.NextTimestamp()}
	if err := s.Append(turn); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Patch(turn.Timestamp+999, "x.wav"); err != nil {
		t.Fatalf("patch: %v", err)
	}
	turns, _ := s.Load()
	if len(turns) != 1 || turns[0] != turn {
		t.Fatalf("store changed by unknown-timestamp patch: %+v", turns)
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 2; i++ {
		if err := s.Append(Turn{Question: "q", Answer: "a", Timestamp: s.NextTimestamp()}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	turns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty log after clear, got %d", len(turns))
	}
}

func TestLoadCorrupt(t *testing.T) {
	s, kvs := newTestStore(t)
	if err := kvs.Set("chatHistory", []byte("not-json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, err := s.Load()
	if !errors.Is(err, ErrCorruptStore) {
		t.Fatalf("expected ErrCorruptStore, got %v", err)
	}
}

func TestNextTimestampUnique(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[int64]bool{}
	prev := int64(0)
	for i := 0; i < 100; i++ {
		ts := s.NextTimestamp()
		if seen[ts] {
			t.Fatalf("duplicate timestamp %d", ts)
		}
		if ts <= prev {
			t.Fatalf("timestamp not increasing: %d after %d", ts, prev)
		}
		seen[ts] = true
		prev = ts
	}
}
