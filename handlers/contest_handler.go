package handlers

import (
	"net/http"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type ContestHandler struct {
	contestService services.ContestService
}

func NewContestHandler(contestService services.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

// ListActive godoc
// @Summary Активные конкурсы
// @Tags contests
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /contests/active [get]
func (h *ContestHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListActive(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"contests": contests,
	}, nil)
}

// List godoc
// @Summary Все конкурсы
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests [get]
func (h *ContestHandler) List(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.List(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"contests": contests,
	}, nil)
}

// Create godoc
// @Summary Создание конкурса
// @Tags admin
// @Accept json
// @Produce json
// @Param input body models.Contest true "Конкурс"
// @Success 201 {object} map[string]interface{}
// @Router /admin/contests [post]
func (h *ContestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var contest models.Contest
	if err := readJSON(w, r, &contest); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.contestService.Create(r.Context(), &contest); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{
		"success": true,
		"contest": contest,
	}, nil)
}

// Update godoc
// @Summary Обновление конкурса
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID конкурса"
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests/{id} [put]
func (h *ContestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var contest models.Contest
	if err := readJSON(w, r, &contest); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	contest.ID = id

	if err := h.contestService.Update(r.Context(), &contest); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"contest": contest,
	}, nil)
}

// Delete godoc
// @Summary Удаление конкурса
// @Tags admin
// @Produce json
// @Param id path int true "ID конкурса"
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests/{id} [delete]
func (h *ContestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.contestService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}

// ChangeStatus godoc
// @Summary Ручная смена статуса конкурса
// @Description Допустимы только переходы scheduled->active/completed,
// @Description active->paused/completed, paused->active/completed.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID конкурса"
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests/{id}/status [patch]
func (h *ContestHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req struct {
		Status models.ContestStatus `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contest, err := h.contestService.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"contest": contest,
	}, nil)
}

// GetSettings godoc
// @Summary Настройки конкурса
// @Tags admin
// @Produce json
// @Param id path int true "ID конкурса"
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests/{id}/settings [get]
func (h *ContestHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.contestService.GetSettings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"settings": settings,
	}, nil)
}

// UpdateSettings godoc
// @Summary Обновление настроек конкурса
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID конкурса"
// @Success 200 {object} map[string]interface{}
// @Router /admin/contests/{id}/settings [put]
func (h *ContestHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var settings models.ContestSettings
	if err := readJSON(w, r, &settings); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	settings.ContestID = id

	if err := h.contestService.UpdateSettings(r.Context(), &settings); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"settings": settings,
	}, nil)
}
