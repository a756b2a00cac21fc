package ws

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/HerbHall/wispgate/internal/billing"
	"github.com/HerbHall/wispgate/internal/directory"
	"github.com/HerbHall/wispgate/internal/gateway"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/plugin/plugintest"
	"go.uber.org/zap"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

func TestInfo_ReturnsCorrectMetadata(t *testing.T) {
	m := New()
	info := m.Info()

	if info.Name != "ws" {
		t.Errorf("Name = %q, want ws", info.Name)
	}
	if info.APIVersion != plugin.APIVersionCurrent {
		t.Errorf("APIVersion = %d, want %d", info.APIVersion, plugin.APIVersionCurrent)
	}
}

func TestSubscriptions_RelaysAllTopics(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	subs := m.Subscriptions()
	if len(subs) != 6 {
		t.Fatalf("Subscriptions() returned %d, want 6", len(subs))
	}

	topics := make(map[string]bool)
	for _, s := range subs {
		topics[s.Topic] = true
		if s.Handler == nil {
			t.Errorf("subscription for %s has no handler", s.Topic)
		}
	}

	expected := []string{
		directory.TopicRouterCreated,
		directory.TopicRouterUpdated,
		directory.TopicRouterDeleted,
		gateway.TopicCommandExecuted,
		billing.TopicLeaseApplied,
		billing.TopicFailoverToggled,
	}
	for _, topic := range expected {
		if !topics[topic] {
			t.Errorf("missing subscription for topic %q", topic)
		}
	}
}

func TestRoutes_ExposesEventStream(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	routes := m.Routes()
	if len(routes) != 1 {
		t.Fatalf("Routes() returned %d, want 1", len(routes))
	}
	if routes[0].Method != http.MethodGet {
		t.Errorf("route method = %q, want GET", routes[0].Method)
	}
	if routes[0].Path != "/events" {
		t.Errorf("route path = %q, want /events", routes[0].Path)
	}
	if routes[0].Handler == nil {
		t.Error("route has no handler")
	}
}

func TestRelayEvent_BroadcastsToClients(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	client := newTestClient("10.0.0.10:52311")
	m.hub.Register(client)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.relayEvent(context.Background(), plugin.Event{
		Topic:     billing.TopicLeaseApplied,
		Source:    "billing",
		Timestamp: ts,
		Payload:   map[string]string{"router_id": "r-1", "address": "10.0.0.5"},
	})

	select {
	case msg := <-client.send:
		if msg.Topic != billing.TopicLeaseApplied {
			t.Errorf("Topic = %q, want %q", msg.Topic, billing.TopicLeaseApplied)
		}
		if msg.Source != "billing" {
			t.Errorf("Source = %q, want billing", msg.Source)
		}
		if !msg.Timestamp.Equal(ts) {
			t.Errorf("Timestamp = %v, want %v", msg.Timestamp, ts)
		}
		data, ok := msg.Data.(map[string]string)
		if !ok {
			t.Fatalf("Data type = %T, want map[string]string", msg.Data)
		}
		if data["address"] != "10.0.0.5" {
			t.Errorf("Data[address] = %q, want 10.0.0.5", data["address"])
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive relayed event")
	}
}

func TestStop_ClosesConnectedClients(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	client := newTestClient("10.0.0.10:52311")
	m.hub.Register(client)

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if m.hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after Stop, want 0", m.hub.ClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("client send channel not closed after Stop")
	}
}

func TestHealth_ReportsClientCount(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	m.hub.Register(newTestClient("10.0.0.10:52311"))
	m.hub.Register(newTestClient("10.0.0.11:49152"))

	health := m.Health(context.Background())
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Message != "2 clients connected" {
		t.Errorf("Message = %q, want %q", health.Message, "2 clients connected")
	}
}
