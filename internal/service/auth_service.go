package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"smart-bookmarks/internal/auth"
	"smart-bookmarks/internal/domain"
	"smart-bookmarks/internal/repository"
	"smart-bookmarks/internal/session"
)

var (
	ErrStateInvalid    = errors.New("oauth state invalid or expired")
	ErrSignOutInFlight = errors.New("sign out already in progress")
)

const oauthStatePrefix = "oauth:state:"

// AuthService coordina el flujo de sign-in externo, el alta de usuarios y el
// ciclo de vida de sesiones.
type AuthService struct {
	logger   *zap.Logger
	provider auth.Provider
	users    repository.UserRepository
	sessions *session.Manager
	states   session.Store
	events   *session.Broadcaster
	stateTTL time.Duration

	mu         sync.Mutex
	signingOut map[string]struct{}
}

func NewAuthService(
	logger *zap.Logger,
	provider auth.Provider,
	users repository.UserRepository,
	sessions *session.Manager,
	states session.Store,
	events *session.Broadcaster,
	stateTTL time.Duration,
) *AuthService {
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	return &AuthService{
		logger:     logger,
		provider:   provider,
		users:      users,
		sessions:   sessions,
		states:     states,
		events:     events,
		stateTTL:   stateTTL,
		signingOut: make(map[string]struct{}),
	}
}

// BeginSignIn emite un nonce de estado y devuelve la URL de autorizacion del
// proveedor. El navegador hace la redireccion externa completa.
func (s *AuthService) BeginSignIn(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Set(ctx, oauthStatePrefix+state, "1", s.stateTTL); err != nil {
		return "", err
	}
	return s.provider.AuthURL(state), nil
}

// CompleteSignIn consume el estado, canjea el codigo, da de alta o recupera
// al usuario y crea la sesion. Publica el evento signed_in.
func (s *AuthService) CompleteSignIn(ctx context.Context, state, code string) (*domain.Session, string, error) {
	if err := s.consumeState(ctx, state); err != nil {
		return nil, "", err
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	sess, token, err := s.sessions.Create(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.events.Publish(domain.AuthEvent{Type: domain.AuthEventSignedIn, SessionID: sess.ID, Session: sess})
	s.logger.Info("sign in completed",
		zap.String("user_id", user.ID),
		zap.String("provider", identity.Provider),
	)
	return sess, token, nil
}

// SignOut destruye la sesion referida por el token. Un flag de ocupado por
// sesion bloquea la doble invocacion concurrente y se limpia siempre al
// salir. Si la destruccion falla, la sesion queda intacta.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		// Sesion ya ausente o vencida: el resultado pedido ya se cumple.
		return nil
	}

	s.mu.Lock()
	if _, busy := s.signingOut[sess.ID]; busy {
		s.mu.Unlock()
		return ErrSignOutInFlight
	}
	s.signingOut[sess.ID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.signingOut, sess.ID)
		s.mu.Unlock()
	}()

	if err := s.sessions.Destroy(ctx, token); err != nil {
		return err
	}

	s.events.Publish(domain.AuthEvent{Type: domain.AuthEventSignedOut, SessionID: sess.ID})
	s.logger.Info("sign out completed", zap.String("user_id", sess.UserID))
	return nil
}

// RefreshSession extiende la sesion vigente y publica token_refreshed.
func (s *AuthService) RefreshSession(ctx context.Context, token string) (*domain.Session, string, error) {
	sess, fresh, err := s.sessions.Refresh(ctx, token)
	if err != nil {
		return nil, "", err
	}
	s.events.Publish(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, SessionID: sess.ID, Session: sess})
	return sess, fresh, nil
}

func (s *AuthService) consumeState(ctx context.Context, state string) error {
	state = strings.TrimSpace(state)
	if state == "" {
		return ErrStateInvalid
	}
	// Lectura y borrado atomicos: dos callbacks concurrentes con el mismo
	// nonce no pueden pasar los dos el chequeo de un solo uso.
	if _, err := s.states.GetDel(ctx, oauthStatePrefix+state); err != nil {
		return ErrStateInvalid
	}
	return nil
}

func (s *AuthService) upsertUser(ctx context.Context, identity auth.Identity) (domain.User, error) {
	user, err := s.users.GetByAuth(ctx, identity.Provider, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:           uuid.NewString(),
		Email:        identity.Email,
		DisplayName:  identity.DisplayName,
		AuthProvider: identity.Provider,
		AuthSubject:  identity.Subject,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
