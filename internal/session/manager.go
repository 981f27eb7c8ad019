package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"smart-bookmarks/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInvalid  = errors.New("session invalid")
)

// Claims son los claims del token de sesion que viaja en la cookie.
// El jti referencia la sesion guardada del lado del servidor.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager emite, resuelve y destruye sesiones. El navegador recibe un JWT
// firmado; el estado real vive en el Store bajo el jti del token.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  Store
}

func NewManager(secret string, ttl time.Duration, store Store) *Manager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "smart-bookmarks",
		store:  store,
	}
}

// Create registra una sesion nueva y devuelve el token firmado para la cookie.
func (m *Manager) Create(ctx context.Context, userID, email string) (*domain.Session, string, error) {
	if len(m.secret) == 0 {
		return nil, "", ErrSessionInvalid
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, "", err
	}
	if err := m.store.Set(ctx, sessionKey(sess.ID), string(payload), m.ttl); err != nil {
		return nil, "", err
	}

	token, err := m.signToken(sess, now)
	if err != nil {
		return nil, "", err
	}
	return sess, token, nil
}

// Resolve valida el token y recupera la sesion del Store.
// Una sesion vencida se elimina del Store al detectarse.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := m.parseToken(token)
	if err != nil {
		return nil, err
	}

	raw, err := m.store.Get(ctx, sessionKey(claims.ID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, ErrSessionInvalid
	}
	if !sess.Valid(time.Now().UTC()) {
		_ = m.store.Delete(ctx, sessionKey(sess.ID))
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Refresh extiende la vigencia de la sesion y emite un token nuevo.
func (m *Manager) Refresh(ctx context.Context, token string) (*domain.Session, string, error) {
	sess, err := m.Resolve(ctx, token)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	sess.ExpiresAt = now.Add(m.ttl)

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, "", err
	}
	if err := m.store.Set(ctx, sessionKey(sess.ID), string(payload), m.ttl); err != nil {
		return nil, "", err
	}
	fresh, err := m.signToken(sess, now)
	if err != nil {
		return nil, "", err
	}
	return sess, fresh, nil
}

// Destroy elimina la sesion referida por el token. Un token invalido o ya
// destruido no es un error: el resultado pedido ya se cumple.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := m.parseToken(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionKey(claims.ID))
}

func (m *Manager) signToken(sess *domain.Session, now time.Time) (string, error) {
	claims := Claims{
		UserID:    sess.UserID,
		Email:     sess.Email,
		TokenType: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Issuer:    m.issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parseToken(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" || len(m.secret) == 0 {
		return Claims{}, ErrSessionInvalid
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSessionInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, ErrSessionInvalid
	}
	if !token.Valid || claims.TokenType != "session" || claims.ID == "" {
		return Claims{}, ErrSessionInvalid
	}
	return claims, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
