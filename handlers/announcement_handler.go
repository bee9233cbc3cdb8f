package handlers

import (
	"net/http"
	"strconv"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// List godoc
// @Summary Объявления конкурса
// @Tags announcements
// @Produce json
// @Param contest_id query int false "Фильтр по конкурсу"
// @Success 200 {object} map[string]interface{}
// @Router /announcements [get]
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	var contestID *int
	if raw := r.URL.Query().Get("contest_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidContestIDParam)
			return
		}
		contestID = &id
	}

	announcements, err := h.announcementService.List(r.Context(), contestID)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":       true,
		"announcements": announcements,
	}, nil)
}

// Create godoc
// @Summary Публикация объявления
// @Tags admin
// @Accept json
// @Produce json
// @Param input body models.Announcement true "Объявление"
// @Success 201 {object} map[string]interface{}
// @Router /admin/announcements [post]
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var announcement models.Announcement
	if err := readJSON(w, r, &announcement); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.announcementService.Create(r.Context(), &announcement); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{
		"success":      true,
		"announcement": announcement,
	}, nil)
}

// Delete godoc
// @Summary Удаление объявления
// @Tags admin
// @Produce json
// @Param id path int true "ID объявления"
// @Success 200 {object} map[string]interface{}
// @Router /admin/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.announcementService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}
