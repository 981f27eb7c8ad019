package domain

import "time"

// Session es la identidad autenticada vigente del usuario actual.
// La UI solo recibe referencias de lectura; el ciclo de vida lo maneja
// el session.Manager.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid indica si la sesion sigue vigente en el instante dado.
func (s Session) Valid(now time.Time) bool {
	return s.ID != "" && now.Before(s.ExpiresAt)
}

// Tipos de eventos de cambio de estado de autenticacion.
const (
	AuthEventSignedIn       = "signed_in"
	AuthEventSignedOut      = "signed_out"
	AuthEventTokenRefreshed = "token_refreshed"
)

// AuthEvent es un cambio de sesion empujado por el proveedor de identidad.
// Session es nil para signed_out; SessionID identifica la sesion afectada
// en todos los casos.
type AuthEvent struct {
	Type      string   `json:"type"`
	SessionID string   `json:"session_id,omitempty"`
	Session   *Session `json:"session,omitempty"`
}
