package engine

import (
	"testing"
)

func TestNotificationsInRegistrationOrder(t *testing.T) {
	e := NewEngine()
	var order []string

	e.Subscribe(ObserverFunc(func(n Notification) { order = append(order, "first:"+string(n.Event)) }))
	e.Subscribe(ObserverFunc(func(n Notification) { order = append(order, "second:"+string(n.Event)) }))

	if err := e.NewGame(testBoard); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := e.Move(3, 2, Right); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"first:new_game", "second:new_game", "first:move", "second:move"}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d notifications, got %v", len(expected), order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Expected %s at %d, got %s", expected[i], i, order[i])
		}
	}
}

func TestNotificationCarriesState(t *testing.T) {
	e := createTestEngine(t, testBoard)

	var got Notification
	e.Subscribe(ObserverFunc(func(n Notification) { got = n }))

	if _, err := e.Move(3, 2, Left); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.State == nil || got.Move == nil {
		t.Fatal("Expected state and move in notification")
	}
	if !got.State.Lost || got.State.MoveCount != 1 {
		t.Errorf("Expected lost state with one move, got %+v", got.State)
	}
	if got.State.LastMoved != (Position{Row: 3, Col: 0}) || got.State.LastDirection != Left {
		t.Errorf("Expected last moved (3,0) left, got %v %v", got.State.LastMoved, got.State.LastDirection)
	}
	if got.Move.Entry != "32L" {
		t.Errorf("Expected entry 32L, got %s", got.Move.Entry)
	}
}

func TestUnsubscribe(t *testing.T) {
	e := createTestEngine(t, testBoard)
	calls := 0

	sub := e.Subscribe(ObserverFunc(func(Notification) { calls++ }))
	if !sub.Valid() {
		t.Fatal("Expected a valid subscription handle")
	}
	if e.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", e.SubscriberCount())
	}

	if !e.Unsubscribe(sub) {
		t.Error("Expected unsubscribe to succeed")
	}
	if e.Unsubscribe(sub) {
		t.Error("Expected second unsubscribe to report false")
	}

	if _, err := e.Move(1, 1, Right); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls after unsubscribe, got %d", calls)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	e := createTestEngine(t, testBoard)
	calls := 0

	var sub Subscription
	sub = e.Subscribe(ObserverFunc(func(Notification) {
		calls++
		e.Unsubscribe(sub)
	}))
	e.Subscribe(ObserverFunc(func(Notification) { calls++ }))

	_, _ = e.Move(1, 1, Right)
	_, _ = e.Move(1, 4, Left)

	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}
