package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ai "jobbot/services/intelligence"
	"jobbot/utils"
)

const (
	MaxDurationSeconds = 60
	MaxFileSize        = 5 * 1024 * 1024
	AllowedExtension   = ".wav"

	waveHeaderSize = 44
	pcmFormat      = 1
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

// parseWaveHeader reads the canonical 44-byte header and rejects anything
// other than 16-bit linear PCM.
func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < waveHeaderSize {
		return nil, errors.New("invalid WAV header length")
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data[:waveHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	switch {
	case string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE":
		return nil, errors.New("not a WAV file")
	case string(header.DataTag[:]) != "data":
		return nil, errors.New("unsupported WAV layout")
	case header.AudioFormat != pcmFormat || header.BitsPerSample != 16:
		return nil, errors.New("audio must be 16-bit PCM")
	case header.ByteRate == 0 || header.NumChannels == 0:
		return nil, errors.New("invalid WAV header")
	}
	return &header, nil
}

func (h *waveHeader) seconds() float64 {
	return float64(h.DataSize) / float64(h.ByteRate)
}

type VoiceHandler struct {
	Transcriber ai.Transcriber
	Chat        ChatService
	Logger      *zap.Logger
}

func NewVoiceHandler(t ai.Transcriber, chat ChatService, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{Transcriber: t, Chat: chat, Logger: logger}
}

// VoiceMessageHandler handles POST /api/v1/chat/voice: a multipart wav
// under "audio" plus a session_id form field. The transcript is answered
// like a typed message.
func (h *VoiceHandler) VoiceMessageHandler(c *gin.Context) {
	if h.Transcriber == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "voice input is not configured", "")
		return
	}
	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "session_id is required")
		return
	}
	language := c.DefaultPostForm("language", "en-US")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type", fmt.Sprintf("expected %s, got %s", AllowedExtension, ext))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}
	if len(data) > MaxFileSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file too large", fmt.Sprintf("limit is %d bytes", MaxFileSize))
		return
	}

	wav, err := parseWaveHeader(data)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
		return
	}
	if wav.seconds() > MaxDurationSeconds {
		utils.JSONError(c, http.StatusBadRequest, "audio too long", fmt.Sprintf("limit is %d seconds", MaxDurationSeconds))
		return
	}

	transcript, err := h.Transcriber.Transcribe(c.Request.Context(), ai.AudioClip{
		Data:       data[waveHeaderSize:],
		SampleRate: int(wav.SampleRate),
		Channels:   int(wav.NumChannels),
		Language:   language,
	})
	if err != nil {
		h.Logger.Error("Transcription failed", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", err.Error())
		return
	}
	if transcript == "" {
		utils.JSONError(c, http.StatusUnprocessableEntity, "no speech detected", "")
		return
	}

	resp := h.Chat.ProcessMessage(c.Request.Context(), sessionID, transcript, "")
	c.JSON(http.StatusOK, gin.H{
		"transcription": transcript,
		"response":      resp,
	})
}
