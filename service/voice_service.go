package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
)

// Transcriber turns recorded speech into text.
type Transcriber interface {
	IsAvailable() bool
	Transcribe(ctx context.Context, audio []byte, format string) (domain.Transcription, error)
}

// OpenAITranscriber calls an OpenAI-compatible /audio/transcriptions endpoint.
type OpenAITranscriber struct {
	apiKey     string
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

func NewOpenAITranscriber(apiKey, baseURL, model string, timeout time.Duration) *OpenAITranscriber {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAITranscriptionModel
	}
	return &OpenAITranscriber{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		language: "pt",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *OpenAITranscriber) IsAvailable() bool {
	return t.apiKey != "" || t.baseURL != DefaultOpenAIBaseURL
}

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte, format string) (domain.Transcription, error) {
	if !t.IsAvailable() {
		return domain.Transcription{}, ErrUnavailable
	}
	if format == "" {
		format = "webm"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "audio."+format)
	if err != nil {
		return domain.Transcription{}, err
	}
	if _, err := part.Write(audio); err != nil {
		return domain.Transcription{}, err
	}
	_ = w.WriteField("model", t.model)
	_ = w.WriteField("language", t.language)
	_ = w.WriteField("response_format", "verbose_json")
	if err := w.Close(); err != nil {
		return domain.Transcription{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return domain.Transcription{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if t.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.apiKey))
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return domain.Transcription{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Transcription{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Transcription{}, err
	}
	return domain.Transcription{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Duration: out.Duration,
	}, nil
}

// VoiceService transcribes a voice message and hands the text to the chat.
type VoiceService struct {
	transcriber Transcriber
	chat        *ChatService
	log         *logrus.Logger
}

func NewVoiceService(transcriber Transcriber, chat *ChatService, logger *logrus.Logger) *VoiceService {
	return &VoiceService{transcriber: transcriber, chat: chat, log: logger}
}

func (s *VoiceService) IsAvailable() bool {
	return s.transcriber != nil && s.transcriber.IsAvailable()
}

func (s *VoiceService) Process(
	ctx context.Context,
	audio []byte,
	format string,
	fc domain.FinancialContext,
) (domain.VoiceReply, error) {
	if !s.IsAvailable() {
		return domain.VoiceReply{}, fmt.Errorf("voice transcription: %w", ErrUnavailable)
	}
	if len(audio) == 0 {
		return domain.VoiceReply{}, ErrEmptyUpload
	}

	tr, err := s.transcriber.Transcribe(ctx, audio, format)
	if err != nil {
		return domain.VoiceReply{}, fmt.Errorf("transcribe audio: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"language": tr.Language,
		"duration": tr.Duration,
	}).Debug("audio transcribed")

	reply, err := s.chat.Send(ctx, tr.Text, fc)
	if err != nil {
		return domain.VoiceReply{Transcription: tr}, err
	}
	return domain.VoiceReply{Transcription: tr, Chat: reply}, nil
}
