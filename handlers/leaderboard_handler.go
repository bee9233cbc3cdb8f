package handlers

import (
	"net/http"
	"strconv"

	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Get godoc
// @Summary Таблица результатов
// @Description Сортировка: очки по убыванию, при равенстве — меньшее время
// @Description прохождения выше.
// @Tags leaderboard
// @Produce json
// @Param contest_id query int false "Фильтр по конкурсу"
// @Param limit query int false "Максимум строк (по умолчанию 100)"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	var contestID *int
	if raw := r.URL.Query().Get("contest_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidContestIDParam)
			return
		}
		contestID = &id
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.leaderboardService.Get(r.Context(), contestID, limit)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":     true,
		"leaderboard": entries,
	}, nil)
}
