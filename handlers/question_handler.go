package handlers

import (
	"errors"
	"net/http"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/services"
)

const maxAttachmentSize = 10 << 20 // 10MB

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListForTrack godoc
// @Summary Включённые задачи языкового трека
// @Description Эталонное решение в ответ не попадает.
// @Tags questions
// @Produce json
// @Param language query string true "python | c | java"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /questions [get]
func (h *QuestionHandler) ListForTrack(w http.ResponseWriter, r *http.Request) {
	language := models.Language(r.URL.Query().Get("language"))

	questions, err := h.questionService.ListForTrack(r.Context(), language)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":   true,
		"questions": questions,
	}, nil)
}

// ListAll godoc
// @Summary Все задачи, включая выключенные и эталонные решения
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/questions [get]
func (h *QuestionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.ListAll(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":   true,
		"questions": questions,
	}, nil)
}

// Create godoc
// @Summary Создание задачи
// @Tags admin
// @Accept json
// @Produce json
// @Param input body models.Question true "Задача"
// @Success 201 {object} map[string]interface{}
// @Router /admin/questions [post]
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var question models.Question
	if err := readJSON(w, r, &question); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.questionService.Create(r.Context(), &question); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{
		"success":  true,
		"question": question,
	}, nil)
}

// Update godoc
// @Summary Обновление задачи
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID задачи"
// @Success 200 {object} map[string]interface{}
// @Router /admin/questions/{id} [put]
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var question models.Question
	if err := readJSON(w, r, &question); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	question.ID = id

	if err := h.questionService.Update(r.Context(), &question); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"question": question,
	}, nil)
}

// ToggleEnabled godoc
// @Summary Включение/выключение задачи
// @Tags admin
// @Produce json
// @Param id path int true "ID задачи"
// @Success 200 {object} map[string]interface{}
// @Router /admin/questions/{id}/toggle [post]
func (h *QuestionHandler) ToggleEnabled(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enabled, err := h.questionService.ToggleEnabled(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"enabled": enabled,
	}, nil)
}

// Delete godoc
// @Summary Удаление задачи
// @Tags admin
// @Produce json
// @Param id path int true "ID задачи"
// @Success 200 {object} map[string]interface{}
// @Router /admin/questions/{id} [delete]
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.questionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil)
}

// UploadAttachment godoc
// @Summary Загрузка вложения задачи в объектное хранилище
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID задачи"
// @Param file formData file true "Файл вложения"
// @Success 200 {object} map[string]interface{}
// @Router /admin/questions/{id}/attachment [post]
func (h *QuestionHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing 'file' form field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	question, err := h.questionService.UploadAttachment(r.Context(), id, header.Filename, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"success":  true,
		"question": question,
	}, nil)
}
