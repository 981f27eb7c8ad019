package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-bookmarks/internal/service"
)

// AuthHandler mantiene dependencias para el flujo de sign-in y sign-out.
type AuthHandler struct {
	logger       *zap.Logger
	authServ     *service.AuthService
	secureCookie bool
	cookieMaxAge int
}

// NewAuthHandler crea una instancia de AuthHandler. secureCookie debe ser
// true cuando la aplicacion sirve por https.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, secureCookie bool, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		authServ:     authServ,
		secureCookie: secureCookie,
		cookieMaxAge: cookieMaxAge,
	}
}

// Login maneja GET /auth/login: redireccion externa al proveedor. Ante error
// del proveedor no hay redireccion: se vuelve a la landing con el mensaje
// bloqueante y el control rehabilitado. Exactamente uno de los dos caminos.
func (h *AuthHandler) Login(c *gin.Context) {
	authURL, err := h.authServ.BeginSignIn(c.Request.Context())
	if err != nil {
		h.logger.Error("begin sign in failed", zap.Error(err))
		c.Redirect(http.StatusFound, PathLanding+"?error="+url.QueryEscape(err.Error()))
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback maneja GET /auth/callback: cierre del flujo OAuth.
func (h *AuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Warn("oauth callback returned error", zap.String("error", providerErr))
		c.Redirect(http.StatusFound, PathLanding+"?error="+url.QueryEscape(providerErr))
		return
	}

	_, token, err := h.authServ.CompleteSignIn(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, service.ErrStateInvalid) {
			h.logger.Warn("oauth state rejected")
		} else {
			h.logger.Error("complete sign in failed", zap.Error(err))
		}
		c.Redirect(http.StatusFound, PathLanding+"?error="+url.QueryEscape("Sign in failed. Please try again."))
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, PathDashboard)
}

// Logout maneja POST /auth/logout. En fallo la sesion queda como estaba y el
// error se muestra inline en el dashboard.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := GetSessionToken(c)
	if strings.TrimSpace(token) == "" {
		c.Redirect(http.StatusFound, PathLanding)
		return
	}

	if err := h.authServ.SignOut(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrSignOutInFlight) {
			c.Redirect(http.StatusFound, PathDashboard)
			return
		}
		h.logger.Error("sign out failed", zap.Error(err))
		c.Redirect(http.StatusFound, PathDashboard+"?error="+url.QueryEscape(err.Error()))
		return
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, PathLanding)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, h.cookieMaxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookie, true)
}
