// Package transporttest provides an in-memory transport.Transport for
// coordinator unit tests, so those tests never open a real socket.
package transporttest

import (
	"fmt"
	"sync"

	"github.com/prishaAgg/nuggets-server/internal/transport"
)

// Fake is a transport.Transport backed by plain Go channels and maps.
type Fake struct {
	mu   sync.Mutex
	sent map[transport.Addr][][]byte
	dead map[transport.Addr]bool

	inbound chan transport.Datagram
}

// New constructs an empty fake transport.
func New() *Fake {
	return &Fake{
		sent:    make(map[transport.Addr][][]byte),
		dead:    make(map[transport.Addr]bool),
		inbound: make(chan transport.Datagram, 64),
	}
}

// Deliver injects an inbound datagram as though a client had sent it,
// letting a test drive the coordinator's Handle loop deterministically.
func (f *Fake) Deliver(from transport.Addr, line string) {
	f.inbound <- transport.Datagram{From: from, Payload: []byte(line)}
}

// Inbound satisfies transport.Transport.
func (f *Fake) Inbound() <-chan transport.Datagram {
	return f.inbound
}

// Send satisfies transport.Transport, recording the payload for later
// assertion instead of writing to a socket. Sending to "dead" (see Kill)
// reports an error, letting tests exercise the "one dead client doesn't
// stall the rest" broadcast path.
func (f *Fake) Send(addr transport.Addr, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead[addr] {
		return fmt.Errorf("transporttest: %s is dead", addr)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.sent[addr] = append(f.sent[addr], cp)
	return nil
}

// Close satisfies transport.Transport.
func (f *Fake) Close() error {
	close(f.inbound)
	return nil
}

// Sent returns every payload sent to addr, in send order.
func (f *Fake) Sent(addr transport.Addr) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.sent[addr]...)
}

// LastSent returns the most recent payload sent to addr, or nil if none.
func (f *Fake) LastSent(addr transport.Addr) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.sent[addr]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// Kill marks addr as dead: subsequent Send calls to it return an error.
func (f *Fake) Kill(addr transport.Addr) {
	f.mu.Lock()
	f.dead[addr] = true
	f.mu.Unlock()
}
