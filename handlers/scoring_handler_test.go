package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type stubScoringService struct {
	result    *services.SubmitResult
	err       error
	lastInput services.SubmitInput
}

func (s *stubScoringService) Submit(ctx context.Context, input services.SubmitInput) (*services.SubmitResult, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func postSubmit(t *testing.T, svc services.ScoringService, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewScoringHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestSubmitHandlerSuccessShape(t *testing.T) {
	stub := &stubScoringService{
		result: &services.SubmitResult{ParticipantID: 7, NewScore: 120, AlreadySolved: false},
	}
	rec := postSubmit(t, stub, `{"participantId":7,"questionId":3,"points":20,"submittedCode":"x"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success       bool `json:"success"`
		ParticipantID int  `json:"participant_id"`
		NewScore      int  `json:"new_score"`
		AlreadySolved bool `json:"already_solved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.ParticipantID != 7 || resp.NewScore != 120 || resp.AlreadySolved {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if stub.lastInput.Points == nil || *stub.lastInput.Points != 20 {
		t.Fatalf("points not passed through: %+v", stub.lastInput.Points)
	}
}

func TestSubmitHandlerAlreadySolved(t *testing.T) {
	stub := &stubScoringService{
		result: &services.SubmitResult{ParticipantID: 7, NewScore: 120, AlreadySolved: true},
	}
	rec := postSubmit(t, stub, `{"participantId":7,"questionId":3,"points":20}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("already_solved must still be 200, got %d", rec.Code)
	}
	var resp struct {
		AlreadySolved bool `json:"already_solved"`
		NewScore      int  `json:"new_score"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.AlreadySolved || resp.NewScore != 120 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrPointsRequired, http.StatusBadRequest},
		{services.ErrParticipantUnresolved, http.StatusUnauthorized},
		{services.ErrParticipantBlocked, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := postSubmit(t, &stubScoringService{err: tc.err}, `{"participantId":7,"points":10}`)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

// Клиенты шлют тело в camelCase; каждое документированное поле должно
// проходить декодер с DisallowUnknownFields и доезжать до сервиса.
func TestSubmitHandlerAcceptsDocumentedKeys(t *testing.T) {
	stub := &stubScoringService{
		result: &services.SubmitResult{ParticipantID: 7, NewScore: 20},
	}
	body := `{"participantId":7,"questionId":3,"submittedCode":"x","points":20,` +
		`"email":"p@example.com","selectedLanguage":"python","timeLeftSeconds":90}`
	rec := postSubmit(t, stub, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("documented body rejected: %d %s", rec.Code, rec.Body.String())
	}

	in := stub.lastInput
	if in.ParticipantID != 7 || in.QuestionID == nil || *in.QuestionID != 3 ||
		in.SubmittedCode != "x" || in.Points == nil || *in.Points != 20 ||
		in.Email != "p@example.com" || in.SelectedLanguage != "python" ||
		in.TimeLeftSeconds == nil || *in.TimeLeftSeconds != 90 {
		t.Fatalf("request fields lost in decoding: %+v", in)
	}
}

func TestSubmitHandlerRejectsMalformedBody(t *testing.T) {
	rec := postSubmit(t, &stubScoringService{}, `{"points":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}

	rec = postSubmit(t, &stubScoringService{}, `{"points":10,"unknown_field":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}
