package ws

import (
	"net/http"

	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/events", Handler: m.handleEvents},
	}
}

// handleEvents upgrades the connection to WebSocket and streams bus
// events until the client disconnects. Cross-origin browser clients are
// rejected by the default origin check.
func (m *Module) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		m.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		addr:   r.RemoteAddr,
		send:   make(chan Message, sendBufferSize),
		logger: m.logger,
	}

	m.hub.Register(client)

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	m.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}
