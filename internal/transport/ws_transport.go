package transport

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"golang.org/x/time/rate"
)

// RateLimit bounds how many lines per second a single connection may send
// before the excess is dropped, enforced with golang.org/x/time/rate.
type RateLimit struct {
	PerSecond int
	Burst     int
}

// WSTransport implements Transport over gobwas/ws connections upgraded from
// an http.Server.
type WSTransport struct {
	log       *slog.Logger
	rateLimit RateLimit

	mu    sync.Mutex
	conns map[string]net.Conn

	inbound chan Datagram
	srv     *http.Server
}

// ListenWS starts an HTTP server on addr that upgrades every request at
// path to a WebSocket connection and begins relaying ASCII lines as
// Datagrams, rate-limiting each connection independently.
func ListenWS(addr, path string, rl RateLimit, log *slog.Logger) (*WSTransport, error) {
	t := &WSTransport{
		log:       log,
		rateLimit: rl,
		conns:     make(map[string]net.Conn),
		inbound:   make(chan Datagram, 256),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, t.handleUpgrade)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}

	t.srv = &http.Server{Handler: mux}
	go func() {
		if err := t.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			t.log.Error("transport: serve exited", "error", err)
		}
	}()

	return t, nil
}

func (t *WSTransport) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		t.log.Warn("transport: upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	addr := parseAddr(conn.RemoteAddr())

	t.mu.Lock()
	t.conns[addr.String()] = conn
	t.mu.Unlock()

	limiter := rate.NewLimiter(rate.Limit(t.rateLimit.PerSecond), t.rateLimit.Burst)
	go t.readLoop(addr, conn, limiter)
}

func (t *WSTransport) readLoop(addr Addr, conn net.Conn, limiter *rate.Limiter) {
	defer func() {
		t.mu.Lock()
		delete(t.conns, addr.String())
		t.mu.Unlock()
		conn.Close()
	}()

	for {
		data, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			return
		}
		if op != ws.OpText {
			continue
		}
		if !limiter.Allow() {
			t.log.Warn("transport: dropping message over rate limit", "from", addr)
			continue
		}
		t.inbound <- Datagram{From: addr, Payload: data}
	}
}

// Inbound satisfies Transport.
func (t *WSTransport) Inbound() <-chan Datagram {
	return t.inbound
}

// Send satisfies Transport. A missing or already-closed connection reports
// an error that callers (the coordinator's broadcast loop) are expected to
// log and otherwise ignore, so one dead client can't stall delivery to the
// rest.
func (t *WSTransport) Send(addr Addr, payload []byte) error {
	t.mu.Lock()
	conn, ok := t.conns[addr.String()]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: no connection for %s", addr)
	}
	return wsutil.WriteServerMessage(conn, ws.OpText, payload)
}

// Close satisfies Transport.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	for _, c := range t.conns {
		c.Close()
	}
	t.conns = make(map[string]net.Conn)
	t.mu.Unlock()

	close(t.inbound)
	return t.srv.Close()
}

func parseAddr(a net.Addr) Addr {
	host, portStr, err := net.SplitHostPort(a.String())
	if err != nil {
		return Addr{Network: a.Network(), Host: a.String()}
	}
	port, _ := strconv.Atoi(portStr)
	return Addr{Network: a.Network(), Host: host, Port: port}
}
