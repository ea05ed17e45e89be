package engine

// Notification is delivered to observers after every session mutation
type Notification struct {
	Event EventType  `json:"event"`
	State *GameState `json:"state"`
	// Move is set for EventMove notifications
	Move *MoveResult `json:"move,omitempty"`
}

// Observer receives session change notifications
type Observer interface {
	OnChange(n Notification)
}

// ObserverFunc adapts a plain function to the Observer interface
type ObserverFunc func(n Notification)

// OnChange calls f(n)
func (f ObserverFunc) OnChange(n Notification) {
	f(n)
}

// Subscription is an opaque handle returned by Subscribe
type Subscription struct {
	id uint64
}

// Valid reports whether the handle came from a Subscribe call
func (s Subscription) Valid() bool {
	return s.id != 0
}

type subscriber struct {
	id       uint64
	observer Observer
}

// notifier delivers notifications synchronously in registration order
type notifier struct {
	nextID      uint64
	subscribers []subscriber
}

func (n *notifier) subscribe(o Observer) Subscription {
	n.nextID++
	n.subscribers = append(n.subscribers, subscriber{id: n.nextID, observer: o})
	return Subscription{id: n.nextID}
}

func (n *notifier) unsubscribe(s Subscription) bool {
	for i, sub := range n.subscribers {
		if sub.id == s.id {
			n.subscribers = append(n.subscribers[:i:i], n.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

func (n *notifier) notify(note Notification) {
	// Observers may unsubscribe while being notified
	subs := make([]subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	for _, sub := range subs {
		sub.observer.OnChange(note)
	}
}

func (n *notifier) count() int {
	return len(n.subscribers)
}
