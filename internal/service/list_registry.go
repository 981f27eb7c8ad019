package service

import (
	"sync"

	"go.uber.org/zap"

	"smart-bookmarks/internal/domain"
	"smart-bookmarks/internal/repository"
	"smart-bookmarks/internal/session"
)

// ListRegistry mantiene un ListController por sesion autenticada. Cada
// controller es el unico dueño de su estado local; nada se comparte entre
// sesiones. El registro se suscribe al stream de eventos de sesion y
// descarta el controller cuando la sesion se cierra.
type ListRegistry struct {
	logger    *zap.Logger
	bookmarks repository.BookmarkRepository

	mu          sync.Mutex
	controllers map[string]*ListController
	sub         *session.Subscription
}

func NewListRegistry(logger *zap.Logger, bookmarks repository.BookmarkRepository, events *session.Broadcaster) *ListRegistry {
	r := &ListRegistry{
		logger:      logger,
		bookmarks:   bookmarks,
		controllers: make(map[string]*ListController),
	}
	if events != nil {
		r.sub = events.Subscribe(r.onAuthEvent)
	}
	return r
}

// For devuelve el controller de la sesion, creandolo en la primera visita.
func (r *ListRegistry) For(sess *domain.Session) *ListController {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.controllers[sess.ID]
	if !ok {
		ctrl = NewListController(r.logger, r.bookmarks, sess.UserID)
		r.controllers[sess.ID] = ctrl
	}
	return ctrl
}

// Drop descarta el controller de una sesion, si existe.
func (r *ListRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, sessionID)
}

// Close desuscribe el registro del stream de eventos. Idempotente.
func (r *ListRegistry) Close() {
	if r.sub != nil {
		r.sub.Unsubscribe()
	}
}

func (r *ListRegistry) onAuthEvent(event domain.AuthEvent) {
	switch event.Type {
	case domain.AuthEventSignedOut:
		r.Drop(event.SessionID)
	case domain.AuthEventSignedIn:
		// Sesion nueva arranca sin estado previo.
		r.Drop(event.SessionID)
	}
}
