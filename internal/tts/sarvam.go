// Package tts renders reply text into playable audio via the Sarvam
// text-to-speech API.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/lang"
)

var (
	ErrInvalidInput    = errors.New("empty text input for synthesis")
	ErrNoAudioReturned = errors.New("no audio data in text-to-speech response")
)

// RequestError carries a non-success HTTP status and the response body.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("sarvam tts error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client calls the Sarvam text-to-speech endpoint and writes the decoded
// audio under AudioDir.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
	AudioDir   string
}

func NewClient(apiKey, baseURL, audioDir string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AudioDir:   audioDir,
	}
}

// ttsRequest carries the fixed voice parameters: the meera speaker at neutral
// pitch/pace/loudness, 22050 Hz output.
type ttsRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Pitch               float64  `json:"pitch"`
	Pace                float64  `json:"pace"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize converts text into a wav file and returns its path. The language
// tag is coerced into the supported set before the request is built. Repeated
// synthesis for the same answer is the caller's concern: the returned path is
// cached against the turn in the store.
func (c *Client) Synthesize(ctx context.Context, text, languageCode string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrInvalidInput
	}
	target := lang.Coerce(languageCode)

	payload := ttsRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  target,
		Speaker:             "meera",
		Pitch:               0,
		Pace:                1.0,
		Loudness:            1.0,
		SpeechSampleRate:    22050,
		EnablePreprocessing: false,
		Model:               "bulbul:v1",
	}
	reqBody, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/text-to-speech", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-subscription-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sarvam tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", &RequestError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var tr ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode tts response: %w", err)
	}
	if len(tr.Audios) == 0 || tr.Audios[0] == "" {
		return "", ErrNoAudioReturned
	}

	audio, err := base64.StdEncoding.DecodeString(tr.Audios[0])
	if err != nil {
		return "", fmt.Errorf("decode tts audio payload: %w", err)
	}

	if err := os.MkdirAll(c.AudioDir, 0o755); err != nil {
		return "", fmt.Errorf("create tts audio directory: %w", err)
	}
	path := filepath.Join(c.AudioDir, fmt.Sprintf("tts_%d.wav", time.Now().UnixMilli()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write tts audio: %w", err)
	}
	return path, nil
}
