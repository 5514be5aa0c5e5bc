// Package transcript converts recorded audio into text via the Sarvam
// speech-to-text API.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/lang"
)

// ErrEmptyTranscript is returned when the service responds without a
// transcript field.
var ErrEmptyTranscript = errors.New("no transcript in speech-to-text response")

// RequestError carries a non-success HTTP status and the response body.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("sarvam stt error: status=%d body=%s", e.StatusCode, e.Body)
}

// Result is the recognized text plus the language the service detected.
type Result struct {
	Text         string
	LanguageCode string
}

// Client calls the Sarvam speech-to-text endpoint.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      "saarika:v2",
	}
}

type sttResponse struct {
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

// Transcribe uploads the audio file at filePath and returns the recognized
// text and detected language. The service accepts wav containers; webm input
// is relabeled before upload so callers never deal with container formats.
func (c *Client) Transcribe(ctx context.Context, filePath string) (Result, error) {
	if c.APIKey == "" {
		return Result{}, fmt.Errorf("sarvam api key missing")
	}

	uploadPath, err := ensureWav(filePath)
	if err != nil {
		return Result{}, err
	}

	audio, err := os.ReadFile(uploadPath)
	if err != nil {
		return Result{}, fmt.Errorf("read recording: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "recording.wav")
	if err != nil {
		return Result{}, err
	}
	if _, err := part.Write(audio); err != nil {
		return Result{}, err
	}
	fields := map[string]string{
		"model":            c.Model,
		"prompt":           "",
		"detect_language":  "true",
		"with_diarization": "false",
		"num_speakers":     "1",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return Result{}, err
		}
	}
	if err := w.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/speech-to-text", &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("api-subscription-key", c.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("sarvam stt request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return Result{}, &RequestError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var sr sttResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Result{}, fmt.Errorf("decode stt response: %w", err)
	}
	if sr.Transcript == "" {
		return Result{}, ErrEmptyTranscript
	}

	code := sr.LanguageCode
	if code == "" {
		code = lang.DefaultTranscript
	}
	return Result{Text: strings.TrimSpace(sr.Transcript), LanguageCode: code}, nil
}

// ensureWav relabels a .webm recording as .wav so the upload names a
// container the service accepts. Other extensions pass through unchanged.
func ensureWav(path string) (string, error) {
	if !strings.HasSuffix(path, ".webm") {
		return path, nil
	}
	wavPath := strings.TrimSuffix(path, ".webm") + ".wav"
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read webm recording: %w", err)
	}
	if err := os.WriteFile(wavPath, data, 0o644); err != nil {
		return "", fmt.Errorf("relabel recording: %w", err)
	}
	return wavPath, nil
}
