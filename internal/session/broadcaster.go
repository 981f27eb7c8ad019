package session

import (
	"sync"

	"smart-bookmarks/internal/domain"
)

// Broadcaster distribuye eventos de cambio de estado de autenticacion a los
// suscriptores vivos. Equivale al stream onAuthStateChange del proveedor.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(domain.AuthEvent)
}

// Subscription es el handle de una suscripcion activa. Unsubscribe debe
// invocarse al desmontar el scope dueño; es idempotente.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(domain.AuthEvent))}
}

// Subscribe registra un callback y devuelve su handle de cancelacion.
func (b *Broadcaster) Subscribe(fn func(domain.AuthEvent)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return &Subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		},
	}
}

// Publish entrega el evento de forma sincronica bajo RLock: una vez que
// Unsubscribe retorna, ese handle no recibe mas entregas. Los callbacks no
// deben suscribir ni desuscribir desde adentro.
func (b *Broadcaster) Publish(event domain.AuthEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(event)
	}
}

// Len informa la cantidad de suscriptores activos.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
