package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	ledgerRepo "jobbot/database/repository/ledger"
	"jobbot/models"
	"jobbot/services/availability"
	"jobbot/services/booking"
	"jobbot/services/calendar"
	"jobbot/services/dialogue"
	ai "jobbot/services/intelligence"
	"jobbot/services/session"
)

// Wednesday 5 March 2025, 08:00 UTC.
var testNow = time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)

type busyCalendar struct{}

func (busyCalendar) CheckOverlap(context.Context, time.Time, time.Time) (bool, error) {
	return true, nil
}

func (busyCalendar) CreateEvent(context.Context, models.CalendarEvent) (*models.CreatedEvent, error) {
	return nil, errors.New("unexpected create")
}

type listingCalendar struct{ busyCalendar }

func (listingCalendar) Upcoming(_ context.Context, from, to time.Time, limit int) ([]models.UpcomingBooking, error) {
	return []models.UpcomingBooking{{ID: "e1", Summary: "Audio - Sam", IsBotBooking: true}}, nil
}

type stubTranscriber struct {
	text string
	got  ai.AudioClip
}

func (s *stubTranscriber) Transcribe(_ context.Context, clip ai.AudioClip) (string, error) {
	s.got = clip
	return s.text, nil
}

type testServer struct {
	router *gin.Engine
	ledger *ledgerRepo.MemoryLedger
	voice  *stubTranscriber
}

func newTestServer(t *testing.T, cal calendar.Calendar) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	clock := func() time.Time { return testNow }

	slots := availability.NewEngine(cal, time.UTC, logger, availability.WithClock(clock))
	ledger := ledgerRepo.NewMemoryLedger()
	fin := &booking.DefaultFinalizer{Reserver: slots, Ledger: ledger, Logger: logger}
	chat := dialogue.NewEngine(session.NewMemoryStore(), slots, ai.NewLocalExtractor(), fin, logger, dialogue.WithClock(clock))
	voice := &stubTranscriber{text: "Jane"}

	chatH := NewChatHandler(chat, logger)
	calH := NewCalendarHandler(slots, logger)
	bookH := NewBookingHandler(fin, ledger, slots, logger)
	wsH := NewLiveChatHandler(chat, logger)
	voiceH := NewVoiceHandler(voice, chat, logger)

	r := gin.New()
	r.POST("/api/v1/chat/message", chatH.MessageHandler)
	r.POST("/api/v1/chat/reset", chatH.ResetHandler)
	r.GET("/api/v1/chat/session/:session_id", chatH.SessionHandler)
	r.GET("/api/v1/chat/ws", wsH.WebSocketHandler)
	r.POST("/api/v1/chat/voice", voiceH.VoiceMessageHandler)
	r.POST("/api/v1/calendar/available-slots", calH.AvailableSlotsHandler)
	r.POST("/api/v1/calendar/book", calH.BookHandler)
	r.GET("/api/v1/calendar/health", calH.HealthHandler)
	r.GET("/api/v1/calendar/upcoming", calH.UpcomingHandler)
	r.POST("/api/v1/booking/confirm", bookH.ConfirmBookingHandler)
	r.GET("/api/v1/booking/summary/:booking_id", bookH.BookingSummaryHandler)
	r.POST("/api/v1/booking/format-summary", bookH.FormatSummaryHandler)
	r.POST("/api/v1/booking/book-test", bookH.BookTestHandler)
	r.GET("/health", HealthHandler(slots.MockMode()))

	return &testServer{router: r, ledger: ledger, voice: voice}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestChatMessage(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/chat/message", gin.H{"content": "hello", "session_id": "h1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	resp := decode[models.ChatResponse](t, w)
	if resp.ConversationState != models.StateCollectingContact || !resp.RequiresInput {
		t.Errorf("unexpected response %+v", resp)
	}

	w = s.do(t, http.MethodPost, "/api/v1/chat/message", gin.H{"content": "Jane", "session_id": "h1"})
	resp = decode[models.ChatResponse](t, w)
	if resp.ConversationState != models.StateCollectingJobType || resp.BookingData.ContactName != "Jane" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestChatMessageValidation(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing session", gin.H{"content": "hi"}},
		{"blank session", gin.H{"content": "hi", "session_id": "   "}},
		{"empty content", gin.H{"content": "", "session_id": "v1"}},
		{"content too long", gin.H{"content": strings.Repeat("a", 1001), "session_id": "v1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, http.MethodPost, "/api/v1/chat/message", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", w.Code)
			}
		})
	}
}

func TestResetAndSession(t *testing.T) {
	s := newTestServer(t, nil)

	if w := s.do(t, http.MethodGet, "/api/v1/chat/session/r1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown session: status %d", w.Code)
	}
	s.do(t, http.MethodPost, "/api/v1/chat/message", gin.H{"content": "hi", "session_id": "r1"})
	s.do(t, http.MethodPost, "/api/v1/chat/message", gin.H{"content": "Jane", "session_id": "r1"})

	w := s.do(t, http.MethodGet, "/api/v1/chat/session/r1", nil)
	sum := decode[models.SessionSummary](t, w)
	if sum.ConversationState != models.StateCollectingJobType || sum.MessageCount != 1 {
		t.Errorf("summary = %+v", sum)
	}

	w = s.do(t, http.MethodPost, "/api/v1/chat/reset?session_id=r1", nil)
	if got := decode[map[string]string](t, w)["status"]; got != "reset" {
		t.Errorf("first reset status = %q", got)
	}
	w = s.do(t, http.MethodPost, "/api/v1/chat/reset", gin.H{"session_id": "r1"})
	if got := decode[map[string]string](t, w)["status"]; got != "not_found" {
		t.Errorf("second reset status = %q", got)
	}
	if w := s.do(t, http.MethodPost, "/api/v1/chat/reset", gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("reset without id: status %d", w.Code)
	}
}

func TestAvailableSlots(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/calendar/available-slots", gin.H{"day": "Friday"})
	res := decode[models.AvailabilityResult](t, w)
	if !res.Success || !res.MockMode || res.DateISO != "2025-03-07" || res.DurationHours != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.AvailableSlots) != 5 {
		t.Errorf("got %d slots", len(res.AvailableSlots))
	}

	w = s.do(t, http.MethodPost, "/api/v1/calendar/available-slots", gin.H{"day": "someday"})
	res = decode[models.AvailabilityResult](t, w)
	if w.Code != http.StatusOK || res.Success || res.Error == "" {
		t.Errorf("invalid day: status %d result %+v", w.Code, res)
	}

	w = s.do(t, http.MethodPost, "/api/v1/calendar/available-slots", gin.H{"day": "Friday", "duration_hours": 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero duration: status %d", w.Code)
	}
}

func TestCalendarBook(t *testing.T) {
	start := time.Date(2025, 3, 7, 13, 0, 0, 0, time.UTC)
	slot := models.NewTimeSlot(start, start.Add(time.Hour))
	b := models.BookingData{JobType: "Audio", ContactName: "Sam", Duration: "2 hours", SelectedSlot: &slot}

	t.Run("mock", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := s.do(t, http.MethodPost, "/api/v1/calendar/book", gin.H{"booking_data": b})
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body)
		}
		resp := decode[bookResponse](t, w)
		if !resp.Success || !resp.MockMode || resp.EventID != "mock_event_202503071300" {
			t.Errorf("resp = %+v", resp)
		}
		if resp.EventDetails == nil || !strings.HasPrefix(resp.EventDetails.End, "2025-03-07T15:00") {
			t.Errorf("duration not applied: %+v", resp.EventDetails)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		s := newTestServer(t, busyCalendar{})
		w := s.do(t, http.MethodPost, "/api/v1/calendar/book", gin.H{"booking_data": b})
		if w.Code != http.StatusConflict {
			t.Fatalf("status %d", w.Code)
		}
		resp := decode[bookResponse](t, w)
		if len(resp.Alternatives) != 3 || resp.Alternatives[0].Time != "15:00" {
			t.Errorf("alternatives = %+v", resp.Alternatives)
		}
	})

	t.Run("no slot", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := s.do(t, http.MethodPost, "/api/v1/calendar/book", gin.H{"booking_data": models.BookingData{JobType: "Audio"}})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status %d", w.Code)
		}
	})
}

func TestCalendarHealthAndUpcoming(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/api/v1/calendar/health", nil)
	health := decode[map[string]any](t, w)
	if health["mock_mode"] != true || health["service_available"] != false {
		t.Errorf("health = %v", health)
	}
	w = s.do(t, http.MethodGet, "/api/v1/calendar/upcoming", nil)
	if got := decode[map[string]any](t, w)["mock_mode"]; got != true {
		t.Errorf("mock upcoming = %v", w.Body)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/calendar/upcoming?days=-1", nil); w.Code != http.StatusBadRequest {
		t.Errorf("negative days: status %d", w.Code)
	}

	s = newTestServer(t, listingCalendar{})
	w = s.do(t, http.MethodGet, "/api/v1/calendar/upcoming?days=3", nil)
	var body struct {
		Success  bool                     `json:"success"`
		Bookings []models.UpcomingBooking `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || len(body.Bookings) != 1 || !body.Bookings[0].IsBotBooking {
		t.Errorf("upcoming = %+v", body)
	}
}

func TestBookingEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/booking/confirm", gin.H{"session_id": "c1", "booking_data": gin.H{"job_type": "Audio"}})
	conf := decode[models.Confirmation](t, w)
	if conf.Status != models.StatusInvalidData {
		t.Errorf("confirm status = %s", conf.Status)
	}

	w = s.do(t, http.MethodPost, "/api/v1/booking/book-test", nil)
	conf = decode[models.Confirmation](t, w)
	if conf.Status != models.StatusConfirmed || conf.Reservation == nil {
		t.Fatalf("book-test = %+v", conf)
	}
	if conf.Reservation.EventID != "mock_event_202503051800" {
		t.Errorf("event id = %s", conf.Reservation.EventID)
	}

	w = s.do(t, http.MethodGet, "/api/v1/booking/summary/"+conf.BookingID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status %d", w.Code)
	}
	rec := decode[models.BookingRecord](t, w)
	if rec.SessionID != "test-session" || rec.Booking.ContactName != "Test Client" {
		t.Errorf("record = %+v", rec)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/booking/summary/BK-MISSING", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing booking: status %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/v1/booking/format-summary", gin.H{"job_type": "Audio"})
	summary := decode[map[string]any](t, w)
	text, _ := summary["formatted_summary"].(string)
	if !strings.Contains(text, "- Type: Audio") || !strings.Contains(text, "- Name: Not specified") {
		t.Errorf("summary = %q", text)
	}
}

func TestServiceHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", nil)
	body := decode[map[string]any](t, w)
	if body["status"] != "healthy" || body["service"] != "jobbot" {
		t.Errorf("health = %v", body)
	}
}

func TestWebSocketChat(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chat/ws?session_id=ws1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, want := range []models.ConversationState{models.StateCollectingContact, models.StateCollectingJobType} {
		if err := conn.WriteJSON(wsFrame{Content: "Jane"}); err != nil {
			t.Fatal(err)
		}
		var resp models.ChatResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.ConversationState != want {
			t.Errorf("state = %s, want %s", resp.ConversationState, want)
		}
	}

	if err := conn.WriteJSON(wsFrame{Content: ""}); err != nil {
		t.Fatal(err)
	}
	var problem wsError
	if err := conn.ReadJSON(&problem); err != nil {
		t.Fatal(err)
	}
	if problem.MessageType != models.MessageError || problem.Message != "content is required" {
		t.Errorf("problem = %+v", problem)
	}
}

func wavBytes(seconds int) []byte {
	const rate, channels = 16000, 1
	data := make([]byte, seconds*rate*channels*2)
	h := waveHeader{
		FmtSize:       16,
		AudioFormat:   pcmFormat,
		NumChannels:   channels,
		SampleRate:    rate,
		ByteRate:      rate * channels * 2,
		BlockAlign:    channels * 2,
		BitsPerSample: 16,
		DataSize:      uint32(len(data)),
		FileSize:      uint32(36 + len(data)),
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	copy(h.DataTag[:], "data")
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(data)
	return buf.Bytes()
}

func voiceRequest(t *testing.T, sessionID, filename string, audio []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if sessionID != "" {
		_ = mw.WriteField("session_id", sessionID)
	}
	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(audio)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/voice", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestVoiceMessage(t *testing.T) {
	s := newTestServer(t, nil)

	// first message only greets
	s.do(t, http.MethodPost, "/api/v1/chat/message", gin.H{"content": "hi", "session_id": "v1"})

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, voiceRequest(t, "v1", "note.wav", wavBytes(1)))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var body struct {
		Transcription string              `json:"transcription"`
		Response      models.ChatResponse `json:"response"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Transcription != "Jane" || body.Response.BookingData.ContactName != "Jane" {
		t.Errorf("body = %+v", body)
	}
	if s.voice.got.SampleRate != 16000 || len(s.voice.got.Data) != 32000 {
		t.Errorf("clip = rate %d, %d bytes", s.voice.got.SampleRate, len(s.voice.got.Data))
	}
}

func TestVoiceMessageRejects(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name      string
		sessionID string
		filename  string
		audio     []byte
		want      int
	}{
		{"no session", "", "a.wav", wavBytes(1), http.StatusBadRequest},
		{"wrong extension", "v2", "a.mp3", wavBytes(1), http.StatusBadRequest},
		{"not a wav", "v2", "a.wav", bytes.Repeat([]byte("x"), 100), http.StatusBadRequest},
		{"too long", "v2", "a.wav", wavBytes(61), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, voiceRequest(t, tt.sessionID, tt.filename, tt.audio))
			if w.Code != tt.want {
				t.Errorf("status %d, want %d", w.Code, tt.want)
			}
		})
	}
}
