package directory

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testProber(t *testing.T) *Prober {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ProbeTimeout = 500 * time.Millisecond
	cfg.ProbeCount = 1
	return NewProber(cfg, zap.NewNop())
}

func TestCheckPort_Open(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	_, portStr, err := net.SplitHostPort(lis.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	p := testProber(t)
	if !p.checkPort(context.Background(), "127.0.0.1", port) {
		t.Error("checkPort = false for listening port")
	}
}

func TestCheckPort_Closed(t *testing.T) {
	// Grab a free port and release it so nothing is listening there.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(lis.Addr().String())
	port, _ := strconv.Atoi(portStr)
	lis.Close()

	p := testProber(t)
	if p.checkPort(context.Background(), "127.0.0.1", port) {
		t.Error("checkPort = true for closed port")
	}
}

func TestCheckPort_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testProber(t)
	if p.checkPort(ctx, "127.0.0.1", 1) {
		t.Error("checkPort = true with canceled context")
	}
}
