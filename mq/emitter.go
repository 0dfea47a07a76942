package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/mailer"
	"storefront/rdx"
)

const orderEventsChannel = "order-events"

// Event kinds
const (
	OrderCreated       = "order-created"
	OrderStatusChanged = "order-status-changed"
)

// OrderEvent is the message published when an order is created or its
// status changes. The notification worker turns these into emails.
type OrderEvent struct {
	Kind          string  `json:"kind"`
	OrderID       string  `json:"orderId"`
	StoreName     string  `json:"storeName"`
	OwnerEmail    string  `json:"ownerEmail,omitempty"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	Status        string  `json:"status,omitempty"`
	Total         float64 `json:"total,omitempty"`
}

// Emit publishes an order event to Redis. Best effort: failures are
// logged and swallowed so the calling operation never fails on them.
func Emit(ctx context.Context, event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartNotificationWorker subscribes to order events and sends the
// corresponding emails. Runs until ctx is cancelled.
func StartNotificationWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, orderEventsChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for order events...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[NotificationWorker] Failed to parse event: %v", err)
				continue
			}
			notify(event)
		}
	}
}

func notify(event OrderEvent) {
	switch event.Kind {
	case OrderCreated:
		if event.CustomerEmail != "" {
			mailer.SendAsync(event.CustomerEmail,
				fmt.Sprintf("Order Confirmation - %s", event.StoreName),
				fmt.Sprintf("<h2>Thank you for your order!</h2><p>Your order #%s has been received.</p>", event.OrderID))
		}
		if event.OwnerEmail != "" {
			mailer.SendAsync(event.OwnerEmail,
				fmt.Sprintf("New Order Received - %s", event.StoreName),
				fmt.Sprintf("<p>You have received a new order (#%s) for R%.2f.</p>", event.OrderID, event.Total))
		}
	case OrderStatusChanged:
		if event.CustomerEmail != "" {
			mailer.SendAsync(event.CustomerEmail,
				fmt.Sprintf("Shipping Update - %s", event.StoreName),
				fmt.Sprintf("<h2>Your order #%s status has been updated to: <b>%s</b>.</h2>", event.OrderID, event.Status))
		}
	default:
		log.Printf("[NotificationWorker] Unknown event kind %q", event.Kind)
	}
}
