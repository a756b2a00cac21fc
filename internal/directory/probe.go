package directory

import (
	"context"
	"net"
	"runtime"
	"strconv"
	"time"

	"github.com/HerbHall/wispgate/pkg/models"
	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// ProbeResult reports reachability of one router: ICMP liveness of the
// host plus a TCP check of its management port.
type ProbeResult struct {
	RouterID  string    `json:"router_id"`
	Alive     bool      `json:"alive"`
	RTTMillis float64   `json:"rtt_ms"`
	APIPort   int       `json:"api_port"`
	PortOpen  bool      `json:"port_open"`
	CheckedAt time.Time `json:"checked_at"`
}

// Prober checks router reachability.
type Prober struct {
	timeout time.Duration
	count   int
	logger  *zap.Logger
}

// NewProber creates a reachability prober.
func NewProber(cfg DirectoryConfig, logger *zap.Logger) *Prober {
	return &Prober{
		timeout: cfg.ProbeTimeout,
		count:   cfg.ProbeCount,
		logger:  logger,
	}
}

// Probe pings the router's host and dials its management port.
func (p *Prober) Probe(ctx context.Context, r *models.Router) ProbeResult {
	res := ProbeResult{
		RouterID:  r.ID,
		APIPort:   r.Port,
		CheckedAt: time.Now().UTC(),
	}

	alive, rtt := p.ping(ctx, r.Host)
	res.Alive = alive
	res.RTTMillis = float64(rtt.Microseconds()) / 1000.0

	res.PortOpen = p.checkPort(ctx, r.Host, r.Port)
	return res
}

// ping sends ICMP echoes to the host and reports liveness and average RTT.
func (p *Prober) ping(ctx context.Context, host string) (bool, time.Duration) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		p.logger.Debug("failed to create pinger", zap.String("host", host), zap.Error(err))
		return false, 0
	}

	pinger.Count = p.count
	pinger.Timeout = p.timeout
	// Windows has no unprivileged ICMP socket.
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			p.logger.Debug("ping failed", zap.String("host", host), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return false, 0
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, stats.AvgRtt
	}
	return false, 0
}

// checkPort dials the management port over TCP.
func (p *Prober) checkPort(ctx context.Context, host string, port int) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
