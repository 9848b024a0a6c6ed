package channel

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sehat-saathi/reminder-service/internal/database"
	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Listener func(*entity.Notification)

type registration struct {
	id       int
	listener Listener
}

// Remote is the live notification channel for one user session: Connect
// subscribes to the user's pub/sub channel and every received notification is
// fanned out to the registered listeners, synchronously and in registration
// order. Remote is constructed and owned by the application context; it is
// not a package-level singleton.
type Remote struct {
	client *redis.Client

	mu        sync.Mutex
	listeners []registration
	nextID    int
	sub       *redis.PubSub
	userID    string
}

func NewRemote(client *redis.Client) *Remote {
	return &Remote{client: client}
}

// Connect establishes the subscription for the given user. Connecting while
// already connected is a no-op.
func (r *Remote) Connect(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != nil {
		return nil
	}

	sub := r.client.Subscribe(ctx, database.NotificationChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	r.sub = sub
	r.userID = userID
	go r.readLoop(sub.Channel())

	logrus.Infof("notification channel connected for user %s", userID)
	return nil
}

func (r *Remote) Disconnect() {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub != nil {
		if err := sub.Close(); err != nil {
			logrus.Warnf("failed to close notification channel: %v", err)
		}
	}
}

// OnNotification registers a listener and returns its unsubscribe func.
func (r *Remote) OnNotification(listener Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, registration{id: id, listener: listener})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, reg := range r.listeners {
			if reg.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *Remote) readLoop(messages <-chan *redis.Message) {
	for msg := range messages {
		var notification entity.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
			logrus.Warnf("dropping malformed notification event: %v", err)
			continue
		}
		r.fanOut(&notification)
	}
}

func (r *Remote) fanOut(notification *entity.Notification) {
	r.mu.Lock()
	regs := make([]registration, len(r.listeners))
	copy(regs, r.listeners)
	r.mu.Unlock()

	for _, reg := range regs {
		reg.listener(notification)
	}
}
