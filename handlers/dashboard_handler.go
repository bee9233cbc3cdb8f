package handlers

import (
	"net/http"
	"strconv"

	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	auditService     services.AuditService
}

func NewDashboardHandler(dashboardService services.DashboardService, auditService services.AuditService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		auditService:     auditService,
	}
}

// Stats godoc
// @Summary Сводная аналитика конкурса
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/analytics [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"stats":   stats,
	}, nil)
}

func limitQuery(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// AuditLogs godoc
// @Summary Журнал начислений
// @Tags admin
// @Produce json
// @Param limit query int false "Максимум записей (по умолчанию 100)"
// @Success 200 {object} map[string]interface{}
// @Router /admin/audit-logs [get]
func (h *DashboardHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditService.RecentLogs(r.Context(), limitQuery(r))
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"logs":    logs,
	}, nil)
}

// Submissions godoc
// @Summary Последние сдачи
// @Tags admin
// @Produce json
// @Param limit query int false "Максимум записей (по умолчанию 100)"
// @Success 200 {object} map[string]interface{}
// @Router /admin/submissions [get]
func (h *DashboardHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.auditService.RecentSubmissions(r.Context(), limitQuery(r))
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":     true,
		"submissions": submissions,
	}, nil)
}
