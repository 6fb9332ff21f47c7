package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/service"
)

type VoiceHandler struct {
	voice *service.VoiceService
	chat  *ChatHandler
	log   *logrus.Logger
}

func NewVoiceHandler(voice *service.VoiceService, chat *ChatHandler, logger *logrus.Logger) *VoiceHandler {
	return &VoiceHandler{voice: voice, chat: chat, log: logger}
}

type voiceResponse struct {
	domain.VoiceReply
	Saved *domain.Transaction `json:"saved_transaction,omitempty"`
}

// Transcribe takes a multipart "audio" file with optional "format",
// "user_id" and financial context fields.
func (h *VoiceHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if !h.voice.IsAvailable() {
		writeError(w, r, h.log, service.ErrUnavailable)
		return
	}

	audio, err := readUpload(r, "audio")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	fc, err := formContext(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	reply, err := h.voice.Process(r.Context(), audio, r.FormValue("format"), fc)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, voiceResponse{
		VoiceReply: reply,
		Saved:      h.chat.store(r, r.FormValue("user_id"), reply.Chat.Transaction, domain.SourceVoice),
	})
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (h *VoiceHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, availabilityResponse{Available: h.voice.IsAvailable()})
}
