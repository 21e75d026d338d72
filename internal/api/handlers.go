package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"gwi.com/windtone-assistant/internal/core"
	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

const multipartMemory = 32 << 20

var errFileTooLarge = errors.New("file too large")

type APIHandler struct {
	chatService   *core.ChatService
	speechService *core.SpeechService
	maxFileSize   int64
	upgrader      websocket.Upgrader
}

func NewAPIHandler(cs *core.ChatService, ss *core.SpeechService, maxFileSize int64) *APIHandler {
	return &APIHandler{
		chatService:   cs,
		speechService: ss,
		maxFileSize:   maxFileSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type TurnView struct {
	store.Turn
	VoiceEnabled bool `json:"voiceEnabled"`
}

type HistoryResponse struct {
	Turns []TurnView `json:"turns"`
	Busy  bool       `json:"busy"`
}

func newHistoryResponse(state store.State) HistoryResponse {
	turns := make([]TurnView, len(state.Turns))
	for i, turn := range state.Turns {
		turns[i] = TurnView{Turn: turn, VoiceEnabled: state.Turns.VoiceEnabled(i)}
	}
	return HistoryResponse{Turns: turns, Busy: state.Busy}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newHistoryResponse(h.chatService.State()))
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.Clear(r.Context()); err != nil {
		log.Printf("Error clearing history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	spoken := false
	if v := r.FormValue("spoken"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid spoken flag: "+v)
			return
		}
		spoken = parsed
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	files := make([]core.File, 0, len(headers))
	for _, fh := range headers {
		f, err := h.readFile(fh)
		if errors.Is(err, errFileTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, f)
	}

	sub, err := h.chatService.AddMessage(r.Context(), core.Input{
		Text:   r.FormValue("text"),
		Files:  files,
		Spoken: spoken,
	})
	switch {
	case errors.Is(err, core.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, core.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message text or at least one file is required")
		return
	case err != nil:
		log.Printf("Error adding message: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		writeJSON(w, http.StatusAccepted, sub.UserTurn)
		return
	}

	outcome, err := sub.Wait(r.Context())
	if err != nil {
		log.Printf("Client left before turn %s settled: %v", sub.UserTurn.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

func (h *APIHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		writeError(w, http.StatusBadRequest, "An audio file is required")
		return
	}
	f, err := h.readFile(r.MultipartForm.File["file"][0])
	if errors.Is(err, errFileTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.speechService.Transcribe(r.Context(), f)
	if err != nil {
		writeError(w, speechStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TranscribeResponse{Text: text})
}

type SpeechRequest struct {
	Voice string `json:"voice"`
}

func (h *APIHandler) SpeechHandler(w http.ResponseWriter, r *http.Request) {
	turnID := chi.URLParam(r, "turnID")

	var req SpeechRequest
	if r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0 {
		if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	audio, err := h.speechService.Speak(r.Context(), turnID, req.Voice)
	if err != nil {
		writeError(w, speechStatus(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", audio.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", audio.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio.Data); err != nil {
		log.Printf("Error writing audio for turn %s: %v", turnID, err)
	}
}

func speechStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrTurnNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNotSpeakable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotAudio):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrNoSpeechEngine), errors.Is(err, provider.ErrAPIKeyNotConfigured):
		return http.StatusServiceUnavailable
	case provider.IsTooLarge(err):
		return http.StatusRequestEntityTooLarge
	}
	log.Printf("Speech request failed: %v", err)
	return http.StatusBadGateway
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readFile buffers an uploaded part so it outlives the request. Parts without a
// useful declared type are sniffed from their content.
func (h *APIHandler) readFile(fh *multipart.FileHeader) (core.File, error) {
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return core.File{}, fmt.Errorf("%w: %s is %.1f MB, the limit is %.1f MB per file",
			errFileTooLarge, fh.Filename, megabytes(fh.Size), megabytes(h.maxFileSize))
	}
	part, err := fh.Open()
	if err != nil {
		return core.File{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer part.Close()
	data, err := io.ReadAll(part)
	if err != nil {
		return core.File{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	mediaType := fh.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = mimetype.Detect(data).String()
	}
	return core.BytesFile(fh.Filename, mediaType, data), nil
}

func megabytes(n int64) float64 {
	return float64(n) / (1024 * 1024)
}
