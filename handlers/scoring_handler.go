package handlers

import (
	"net/http"

	"github.com/Piyushgeek-gupta/Code-Alchemists/middleware"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type ScoringHandler struct {
	scoringService services.ScoringService
}

func NewScoringHandler(scoringService services.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoringService: scoringService}
}

// Имена полей — camelCase, как их шлют клиенты; ответы сервис отдаёт
// в snake_case.
type submitRequest struct {
	ParticipantID    int    `json:"participantId"`
	Email            string `json:"email"`
	QuestionID       *int   `json:"questionId"`
	SubmittedCode    string `json:"submittedCode"`
	Points           *int   `json:"points"`
	SelectedLanguage string `json:"selectedLanguage"`
	TimeLeftSeconds  *int   `json:"timeLeftSeconds"`
}

// Submit godoc
// @Summary Идемпотентное начисление очков за решение
// @Description За пару (участник, задача) очки начисляются не более одного
// @Description раза; повторная сдача возвращает already_solved и текущий счёт.
// @Tags scoring
// @Accept json
// @Produce json
// @Param input body submitRequest true "Сдача решения"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /submit [post]
func (h *ScoringHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.SubmitInput{
		ParticipantID:    req.ParticipantID,
		Email:            req.Email,
		QuestionID:       req.QuestionID,
		SubmittedCode:    req.SubmittedCode,
		Points:           req.Points,
		SelectedLanguage: req.SelectedLanguage,
		TimeLeftSeconds:  req.TimeLeftSeconds,
	}
	// Токен надёжнее полей тела: если запрос аутентифицирован, личность
	// берётся из него.
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		input.UserID = userID
	}
	if email := middleware.GetUserEmailFromContext(r.Context()); email != "" {
		input.Email = email
	}

	result, err := h.scoringService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"success":        true,
		"participant_id": result.ParticipantID,
		"new_score":      result.NewScore,
		"already_solved": result.AlreadySolved,
	}, nil)
}
