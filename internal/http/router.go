package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-bookmarks/internal/session"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// templatesGlob puede ser vacio en tests que no rinden HTML.
func NewRouter(
	logger *zap.Logger,
	sessions *session.Manager,
	authH *AuthHandler,
	pageH *PageHandler,
	bookmarkH *BookmarkHandler,
	templatesGlob string,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), SessionMiddleware(sessions))

	if templatesGlob != "" {
		r.LoadHTMLGlob(templatesGlob)
	}

	// Superficie de navegacion.
	r.GET(PathLanding, pageH.Landing)
	r.GET(PathDashboard, pageH.Dashboard)
	r.POST("/dashboard/bookmarks", pageH.AddBookmark)
	r.POST("/dashboard/bookmarks/:id/delete", pageH.DeleteBookmark)

	// Flujo de autenticacion.
	auth := r.Group("/auth")
	auth.GET("/login", authH.Login)
	auth.GET("/callback", authH.Callback)
	auth.POST("/logout", authH.Logout)

	// API JSON con sesion requerida.
	api := r.Group("/api")
	api.Use(cors.Default(), RequireSession())
	api.GET("/bookmarks", bookmarkH.List)
	api.POST("/bookmarks", bookmarkH.Create)
	api.DELETE("/bookmarks/:id", bookmarkH.Delete)

	return r
}
