// Package ws streams bus events to WebSocket subscribers in real time.
// Every topic the other plugins publish is relayed as a JSON frame to
// each connected client; slow clients lose frames rather than stall the
// hub.
package ws

import (
	"context"
	"fmt"

	"github.com/HerbHall/wispgate/internal/billing"
	"github.com/HerbHall/wispgate/internal/directory"
	"github.com/HerbHall/wispgate/internal/gateway"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.HTTPProvider    = (*Module)(nil)
	_ plugin.EventSubscriber = (*Module)(nil)
	_ plugin.HealthChecker   = (*Module)(nil)
)

// Module implements the WebSocket event stream plugin.
type Module struct {
	logger *zap.Logger
	hub    *Hub
}

// New creates a new WebSocket stream plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "ws",
		Version:     "0.1.0",
		Description: "Streams router, command, and billing events to WebSocket clients",
		Roles:       []string{"notification"},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.hub = NewHub(m.logger)
	m.logger.Info("ws module initialized")
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("ws module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.hub != nil {
		m.hub.CloseAll()
	}
	m.logger.Info("ws module stopped")
	return nil
}

// Subscriptions implements plugin.EventSubscriber. Unlike the webhook
// notifier, the stream relays per-command gateway events too: a live
// dashboard wants to see every proxied command as it happens.
func (m *Module) Subscriptions() []plugin.Subscription {
	topics := []string{
		directory.TopicRouterCreated,
		directory.TopicRouterUpdated,
		directory.TopicRouterDeleted,
		gateway.TopicCommandExecuted,
		billing.TopicLeaseApplied,
		billing.TopicFailoverToggled,
	}
	subs := make([]plugin.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, plugin.Subscription{Topic: topic, Handler: m.relayEvent})
	}
	return subs
}

func (m *Module) relayEvent(_ context.Context, event plugin.Event) {
	m.hub.Broadcast(Message{
		Topic:     event.Topic,
		Source:    event.Source,
		Timestamp: event.Timestamp,
		Data:      event.Payload,
	})
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	count := 0
	if m.hub != nil {
		count = m.hub.ClientCount()
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Message: fmt.Sprintf("%d clients connected", count),
	}
}
