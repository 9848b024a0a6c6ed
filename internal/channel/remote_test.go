package channel

import (
	"testing"

	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestFanOutOrderAndUnsubscribe(t *testing.T) {
	remote := NewRemote(nil)

	var order []string
	unsubscribeFirst := remote.OnNotification(func(n *entity.Notification) {
		order = append(order, "first:"+n.ID)
	})
	remote.OnNotification(func(n *entity.Notification) {
		order = append(order, "second:"+n.ID)
	})

	remote.fanOut(&entity.Notification{ID: "n1"})
	assert.Equal(t, []string{"first:n1", "second:n1"}, order, "listeners run in registration order")

	unsubscribeFirst()
	remote.fanOut(&entity.Notification{ID: "n2"})
	assert.Equal(t, []string{"first:n1", "second:n1", "second:n2"}, order)

	// unsubscribing twice is harmless
	unsubscribeFirst()
	remote.fanOut(&entity.Notification{ID: "n3"})
	assert.Equal(t, []string{"first:n1", "second:n1", "second:n2", "second:n3"}, order)
}

func TestFanOutNoListeners(t *testing.T) {
	remote := NewRemote(nil)
	assert.NotPanics(t, func() {
		remote.fanOut(&entity.Notification{ID: "n1"})
	})
}
