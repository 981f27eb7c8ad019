package session

import (
	"testing"

	"smart-bookmarks/internal/domain"
)

func TestBroadcasterPublishReachesSubscribers(t *testing.T) {
	b := NewBroadcaster()

	var got []string
	sub := b.Subscribe(func(e domain.AuthEvent) {
		got = append(got, e.Type)
	})
	defer sub.Unsubscribe()

	b.Publish(domain.AuthEvent{Type: domain.AuthEventSignedIn})
	b.Publish(domain.AuthEvent{Type: domain.AuthEventSignedOut})

	if len(got) != 2 || got[0] != domain.AuthEventSignedIn || got[1] != domain.AuthEventSignedOut {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestBroadcasterNoDeliveryAfterUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	sub := b.Subscribe(func(domain.AuthEvent) { calls++ })

	b.Publish(domain.AuthEvent{Type: domain.AuthEventSignedIn})
	sub.Unsubscribe()
	b.Publish(domain.AuthEvent{Type: domain.AuthEventSignedOut})

	if calls != 1 {
		t.Fatalf("expected 1 delivery got %d", calls)
	}
	if b.Len() != 0 {
		t.Fatalf("expected 0 live subscriptions got %d", b.Len())
	}
}

func TestBroadcasterUnsubscribeIdempotent(t *testing.T) {
	b := NewBroadcaster()

	first := b.Subscribe(func(domain.AuthEvent) {})
	second := b.Subscribe(func(domain.AuthEvent) {})

	first.Unsubscribe()
	first.Unsubscribe()
	first.Unsubscribe()

	if b.Len() != 1 {
		t.Fatalf("expected second subscription to survive, got %d live", b.Len())
	}
	second.Unsubscribe()
	if b.Len() != 0 {
		t.Fatalf("expected 0 live subscriptions got %d", b.Len())
	}
}

func TestBroadcasterIndependentSubscriptions(t *testing.T) {
	b := NewBroadcaster()

	gateCalls, listCalls := 0, 0
	gateSub := b.Subscribe(func(domain.AuthEvent) { gateCalls++ })
	listSub := b.Subscribe(func(domain.AuthEvent) { listCalls++ })

	b.Publish(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed})
	gateSub.Unsubscribe()
	b.Publish(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed})
	listSub.Unsubscribe()

	if gateCalls != 1 {
		t.Fatalf("expected 1 gate delivery got %d", gateCalls)
	}
	if listCalls != 2 {
		t.Fatalf("expected 2 list deliveries got %d", listCalls)
	}
}
