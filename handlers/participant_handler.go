package handlers

import (
	"net/http"

	"github.com/Piyushgeek-gupta/Code-Alchemists/middleware"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// SelectLanguage godoc
// @Summary Одноразовый выбор языкового трека
// @Description Первый выбор фиксируется, повторные вызовы успешны, но язык
// @Description не меняют. Сбросить выбор может только администратор.
// @Tags participants
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /select-language [post]
func (h *ParticipantHandler) SelectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   int    `json:"userId"`
		Email    string `json:"email"`
		Language string `json:"language"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.SelectLanguageInput{UserID: req.UserID, Email: req.Email, Language: req.Language}
	// Проверенный токен надёжнее тела запроса.
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		input.UserID = userID
	}

	if err := h.participantService.SelectLanguage(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}

// FinishContest godoc
// @Summary Завершение конкурса участником
// @Description Время прохождения считается на сервере от момента регистрации.
// @Tags participants
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /contest/finish [post]
func (h *ParticipantHandler) FinishContest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participant, err := h.participantService.FinishContest(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"success":     true,
		"participant": participant,
	}, nil)
}

// List godoc
// @Summary Список участников с профилями и конкурсами
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.List(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":      true,
		"participants": participants,
	}, nil)
}

// ToggleBlock godoc
// @Summary Блокировка/разблокировка участника
// @Tags admin
// @Produce json
// @Param id path int true "ID участника"
// @Success 200 {object} map[string]interface{}
// @Router /admin/participants/{id}/block [post]
func (h *ParticipantHandler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	blocked, err := h.participantService.ToggleBlock(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"blocked": blocked,
	}, nil)
}

// ResetProgress godoc
// @Summary Сброс очков и прогресса участника
// @Tags admin
// @Produce json
// @Param id path int true "ID участника"
// @Success 200 {object} map[string]interface{}
// @Router /admin/participants/{id}/reset [post]
func (h *ParticipantHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.ResetProgress(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}

// ResetLanguage godoc
// @Summary Сброс выбранного языкового трека
// @Tags admin
// @Produce json
// @Param id path int true "ID участника"
// @Success 200 {object} map[string]interface{}
// @Router /admin/participants/{id}/reset-language [post]
func (h *ParticipantHandler) ResetLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.ResetLanguage(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}

// Remove godoc
// @Summary Полное удаление участника
// @Description Удаляет участника, профиль и учётную запись. Сбой удаления
// @Description учётной записи возвращается предупреждением, не ошибкой.
// @Tags admin
// @Produce json
// @Param id path int true "ID участника"
// @Success 200 {object} map[string]interface{}
// @Router /admin/participants/{id} [delete]
func (h *ParticipantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	warning, err := h.participantService.RemoveParticipant(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"success": true}
	if warning != "" {
		resp["warning"] = warning
	}
	writeJSON(w, http.StatusOK, resp, nil)
}
