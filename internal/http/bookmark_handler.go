package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-bookmarks/internal/domain"
	"smart-bookmarks/internal/repository"
	"smart-bookmarks/internal/service"
)

// BookmarkHandler expone la lista de marcadores como API JSON. Los errores
// del repositorio se achatan a un string uniforme: para el cliente todo
// fallo no nulo se reporta igual.
type BookmarkHandler struct {
	logger   *zap.Logger
	registry *service.ListRegistry
}

func NewBookmarkHandler(logger *zap.Logger, registry *service.ListRegistry) *BookmarkHandler {
	return &BookmarkHandler{
		logger:   logger,
		registry: registry,
	}
}

// List maneja GET /api/bookmarks.
func (h *BookmarkHandler) List(c *gin.Context) {
	sess, _ := GetSession(c)
	ctrl := h.registry.For(sess)
	if ctrl.Snapshot().State == service.ListStateLoading {
		_ = ctrl.Load(c.Request.Context())
	}
	snapshot := ctrl.Snapshot()
	if snapshot.LastError != "" && len(snapshot.Items) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": snapshot.LastError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": snapshot.Items})
}

// Create maneja POST /api/bookmarks.
func (h *BookmarkHandler) Create(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, _ := GetSession(c)
	ctrl := h.registry.For(sess)

	created, err := ctrl.Add(c.Request.Context(), req.Title, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookmarkFieldsRequired),
			errors.Is(err, domain.ErrBookmarkURLInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsertInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bookmark": created})
}

// Delete maneja DELETE /api/bookmarks/:id.
func (h *BookmarkHandler) Delete(c *gin.Context) {
	sess, _ := GetSession(c)
	ctrl := h.registry.For(sess)

	if err := ctrl.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookmarkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDeleteInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
