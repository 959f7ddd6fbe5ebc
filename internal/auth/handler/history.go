package handler

import (
	"errors"
	"net/http"

	"comic-service/internal/history"
	"comic-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		abortWith(c, http.StatusNotFound, history.ErrNotFound.Error())
	case errors.Is(err, history.ErrInvalidEntry):
		abortWith(c, http.StatusBadRequest, history.ErrInvalidEntry.Error())
	default:
		writeError(c, err)
	}
}

func historyResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func (h *Handler) ComicHistory(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	entries, err := h.history.ComicHistory(c.Request.Context(), userID)
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	historyResponse(c, http.StatusOK, "comic history", entries)
}

func (h *Handler) ChapterHistory(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	entries, err := h.history.ChapterHistory(c.Request.Context(), userID, c.Param("comicId"))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	historyResponse(c, http.StatusOK, "chapter history", entries)
}

func (h *Handler) LatestChapter(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	entry, err := h.history.LatestChapter(c.Request.Context(), userID, c.Param("comicId"))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	historyResponse(c, http.StatusOK, "latest chapter", entry)
}

func (h *Handler) AddHistory(c *gin.Context) {
	var req history.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	entry, err := h.history.Add(c.Request.Context(), userID, req)
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	historyResponse(c, http.StatusCreated, "history added", entry)
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	if err := h.history.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeHistoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
