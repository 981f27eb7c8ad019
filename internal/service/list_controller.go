package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart-bookmarks/internal/domain"
	"smart-bookmarks/internal/repository"
)

// Estados del ciclo de vida de la lista.
const (
	ListStateLoading = "loading"
	ListStateLoaded  = "loaded"
)

var (
	ErrInsertInFlight = errors.New("an insert is already in progress")
	ErrDeleteInFlight = errors.New("delete already in progress for this bookmark")
)

// ListItem es una fila de la lista local con su marca de borrado pendiente.
type ListItem struct {
	domain.Bookmark
	Deleting bool `json:"deleting,omitempty"`
}

// ListSnapshot es una copia de solo lectura del estado local de la lista.
type ListSnapshot struct {
	State     string     `json:"state"`
	Items     []ListItem `json:"items"`
	LastError string     `json:"last_error,omitempty"`
}

// ListController es dueño del estado local de la lista de marcadores de una
// sesion: refleja la ultima lectura exitosa mas los parches locales. Insert
// aplica el alta apenas el servidor confirma (prepend); Delete es pesimista,
// marca la fila como "deleting" y recien la quita con la confirmacion. Esa
// asimetria es una decision de producto, no hay que unificarla.
type ListController struct {
	logger    *zap.Logger
	bookmarks repository.BookmarkRepository
	userID    string

	mu        sync.Mutex
	state     string
	items     []ListItem
	lastError string
	inserting bool
	deleting  map[string]struct{}
}

func NewListController(logger *zap.Logger, bookmarks repository.BookmarkRepository, userID string) *ListController {
	return &ListController{
		logger:    logger,
		bookmarks: bookmarks,
		userID:    userID,
		state:     ListStateLoading,
		deleting:  make(map[string]struct{}),
	}
}

// Load reemplaza el estado local por completo con la lectura del repositorio.
// Ante error la lista queda vacia, el mensaje va al canal de error y el estado
// sigue en loading, asi la proxima peticion reintenta la carga.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()

	bookmarks, err := c.bookmarks.ListByOwner(ctx, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = ListStateLoading
		c.items = nil
		c.lastError = err.Error()
		c.logger.Warn("bookmark load failed", zap.String("user_id", c.userID), zap.Error(err))
		return err
	}
	c.state = ListStateLoaded
	c.items = make([]ListItem, 0, len(bookmarks))
	for _, b := range bookmarks {
		// Filtro defensivo por dueño ademas del filtro del servidor.
		if b.UserID != c.userID {
			continue
		}
		c.items = append(c.items, ListItem{Bookmark: b})
	}
	return nil
}

// Add valida localmente antes de tocar la red; un fallo de validacion no
// genera llamada al repositorio. Admite un solo insert en vuelo. En exito la
// fila confirmada se antepone (el orden desciende por creacion y el alta es
// la mas nueva) y el formulario debe limpiarse; en fallo el formulario se
// conserva y la lista no cambia.
func (c *ListController) Add(ctx context.Context, title, url string) (domain.Bookmark, error) {
	c.mu.Lock()
	c.lastError = ""

	title, url, err := domain.ValidateBookmarkInput(title, url)
	if err != nil {
		c.lastError = err.Error()
		c.mu.Unlock()
		return domain.Bookmark{}, err
	}

	if c.inserting {
		c.mu.Unlock()
		return domain.Bookmark{}, ErrInsertInFlight
	}
	c.inserting = true
	c.mu.Unlock()

	created, err := c.bookmarks.Insert(ctx, domain.Bookmark{
		ID:        uuid.NewString(),
		UserID:    c.userID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inserting = false
	if err != nil {
		c.lastError = err.Error()
		c.logger.Warn("bookmark insert failed", zap.String("user_id", c.userID), zap.Error(err))
		return domain.Bookmark{}, err
	}
	c.items = append([]ListItem{{Bookmark: created}}, c.items...)
	return created, nil
}

// Delete es pesimista: marca la fila, llama al repositorio y recien la quita
// con la confirmacion. Deletes sobre filas distintas avanzan en paralelo; un
// segundo delete sobre la misma fila en vuelo se bloquea.
func (c *ListController) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	c.lastError = ""

	idx := c.indexOf(id)
	if idx < 0 {
		c.lastError = repository.ErrBookmarkNotFound.Error()
		c.mu.Unlock()
		return repository.ErrBookmarkNotFound
	}
	if _, busy := c.deleting[id]; busy {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	c.deleting[id] = struct{}{}
	c.items[idx].Deleting = true
	c.mu.Unlock()

	err := c.bookmarks.Delete(ctx, id, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deleting, id)
	idx = c.indexOf(id)
	if err != nil {
		// La fila vuelve a present-enabled; no hubo remocion optimista.
		if idx >= 0 {
			c.items[idx].Deleting = false
		}
		c.lastError = err.Error()
		c.logger.Warn("bookmark delete failed",
			zap.String("user_id", c.userID),
			zap.String("bookmark_id", id),
			zap.Error(err),
		)
		return err
	}
	if idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
	return nil
}

// Snapshot devuelve una copia del estado para renderizar.
func (c *ListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]ListItem, len(c.items))
	copy(items, c.items)
	return ListSnapshot{
		State:     c.state,
		Items:     items,
		LastError: c.lastError,
	}
}

// indexOf requiere c.mu tomado.
func (c *ListController) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
