package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-bookmarks/internal/domain"
	"smart-bookmarks/internal/session"
)

const (
	// SessionCookieName es la cookie que lleva el token de sesion firmado.
	SessionCookieName = "sb_session"

	sessionCtxKey = "auth_session"
	tokenCtxKey   = "auth_token"
)

// SessionMiddleware resuelve la cookie de sesion y deja la sesion (o nada)
// en el contexto. No aborta: cada pagina decide con su gate.
func SessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err == nil && strings.TrimSpace(token) != "" {
			if sess, err := sessions.Resolve(c.Request.Context(), token); err == nil {
				c.Set(sessionCtxKey, sess)
				c.Set(tokenCtxKey, token)
			}
		}
		c.Next()
	}
}

// RequireSession corta con 401 los endpoints de API sin sesion valida.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession obtiene la sesion resuelta desde el contexto.
func GetSession(c *gin.Context) (*domain.Session, bool) {
	val, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*domain.Session)
	return sess, ok && sess != nil
}

// GetSessionToken obtiene el token crudo de la cookie, si hubo sesion valida.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(tokenCtxKey)
}

// gateFor arma el gate de la request: con el middleware ya corrido, el
// fetch de sesion resolvio y el gate queda listo.
func gateFor(c *gin.Context) *Gate {
	gate := NewGate()
	sess, _ := GetSession(c)
	gate.Observe(sess)
	return gate
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
