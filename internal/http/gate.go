package http

import "smart-bookmarks/internal/domain"

// Estados de presentacion del gate de autenticacion.
const (
	GateUnknown       = "unknown"
	GateAnonymous     = "anonymous"
	GateAuthenticated = "authenticated"
)

// Rutas logicas de la superficie de navegacion.
const (
	PathLanding   = "/"
	PathDashboard = "/dashboard"
)

// Gate es la politica de presentacion sobre el estado de sesion. Arranca en
// unknown y recien decide redirecciones cuando el primer fetch de sesion
// resolvio: asi no se muestra el control equivocado ni se redirige antes de
// conocer la sesion real.
type Gate struct {
	ready   bool
	session *domain.Session
}

func NewGate() *Gate {
	return &Gate{}
}

// Observe registra el resultado de un fetch de sesion (nil = sin sesion) y
// marca el gate como listo.
func (g *Gate) Observe(session *domain.Session) {
	g.session = session
	g.ready = true
}

// State devuelve el estado de presentacion vigente.
func (g *Gate) State() string {
	if !g.ready {
		return GateUnknown
	}
	if g.session != nil {
		return GateAuthenticated
	}
	return GateAnonymous
}

// Ready indica si el primer fetch de sesion ya resolvio.
func (g *Gate) Ready() bool {
	return g.ready
}

// Session devuelve la sesion observada, o nil.
func (g *Gate) Session() *domain.Session {
	return g.session
}

// Redirect decide la navegacion para la ruta pedida: usuarios autenticados
// no ven la landing y anonimos no ven el dashboard. Antes de ready nunca
// se redirige.
func (g *Gate) Redirect(path string) string {
	if !g.ready {
		return ""
	}
	switch {
	case g.session != nil && path == PathLanding:
		return PathDashboard
	case g.session == nil && path == PathDashboard:
		return PathLanding
	default:
		return ""
	}
}
