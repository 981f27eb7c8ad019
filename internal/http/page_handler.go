package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-bookmarks/internal/service"
)

// PageHandler sirve las dos superficies de navegacion: landing publica y
// dashboard autenticado.
type PageHandler struct {
	logger   *zap.Logger
	registry *service.ListRegistry
}

func NewPageHandler(logger *zap.Logger, registry *service.ListRegistry) *PageHandler {
	return &PageHandler{
		logger:   logger,
		registry: registry,
	}
}

// Landing maneja GET /. Usuarios autenticados van directo al dashboard.
func (h *PageHandler) Landing(c *gin.Context) {
	gate := gateFor(c)
	if target := gate.Redirect(PathLanding); target != "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	c.HTML(http.StatusOK, "landing.html", gin.H{
		"GateState": gate.State(),
		"Error":     c.Query("error"),
	})
}

// Dashboard maneja GET /dashboard. Anonimos vuelven a la landing. La primera
// visita de una sesion dispara la carga de la lista; las siguientes rinden
// el estado local del controller.
func (h *PageHandler) Dashboard(c *gin.Context) {
	gate := gateFor(c)
	if target := gate.Redirect(PathDashboard); target != "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	sess := gate.Session()
	ctrl := h.registry.For(sess)
	if ctrl.Snapshot().State == service.ListStateLoading {
		// El error de carga queda en el canal de error del controller.
		_ = ctrl.Load(c.Request.Context())
	}

	snapshot := ctrl.Snapshot()
	pageError := snapshot.LastError
	if pageError == "" {
		pageError = c.Query("error")
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"GateState": gate.State(),
		"Email":     sess.Email,
		"Items":     snapshot.Items,
		"Error":     pageError,
		"FormTitle": c.Query("title"),
		"FormURL":   c.Query("url"),
	})
}

// AddBookmark maneja POST /dashboard/bookmarks (formulario). En exito se
// redirige limpio (formulario vacio); en fallo los valores del formulario
// viajan de vuelta intactos.
func (h *PageHandler) AddBookmark(c *gin.Context) {
	gate := gateFor(c)
	if target := gate.Redirect(PathDashboard); target != "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	title := c.PostForm("title")
	rawURL := c.PostForm("url")

	ctrl := h.registry.For(gate.Session())
	if _, err := ctrl.Add(c.Request.Context(), title, rawURL); err != nil {
		c.Redirect(http.StatusFound, PathDashboard+"?title="+url.QueryEscape(title)+"&url="+url.QueryEscape(rawURL))
		return
	}
	c.Redirect(http.StatusFound, PathDashboard)
}

// DeleteBookmark maneja POST /dashboard/bookmarks/:id/delete (formulario).
func (h *PageHandler) DeleteBookmark(c *gin.Context) {
	gate := gateFor(c)
	if target := gate.Redirect(PathDashboard); target != "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	ctrl := h.registry.For(gate.Session())
	_ = ctrl.Delete(c.Request.Context(), c.Param("id"))
	c.Redirect(http.StatusFound, PathDashboard)
}
