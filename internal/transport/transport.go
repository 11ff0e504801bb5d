// Package transport abstracts the datagram-oriented wire connection between
// the coordinator and its clients, so the coordinator's message-handling
// logic never imports a specific socket library directly.
//
// The concrete implementation (ws_transport.go) owns accept/read/write
// plumbing over gobwas/ws and hands the coordinator a decoded event stream.
package transport

import "fmt"

// Addr identifies one connected client. The wire protocol is UDP-like: each
// inbound datagram carries its own address, and Send targets an address
// directly rather than a stream handle.
type Addr struct {
	Network string
	Host    string
	Port    int
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Datagram is one inbound message: the line of text a client sent, and the
// address it came from.
type Datagram struct {
	From    Addr
	Payload []byte
}

// Transport is the minimum surface the coordinator needs from a concrete
// connection technology: an inbound stream of datagrams, and a way to push
// a reply to a given address.
type Transport interface {
	// Inbound returns the channel of datagrams read from clients. It is
	// closed when the transport shuts down.
	Inbound() <-chan Datagram

	// Send writes payload to addr. Implementations must not block the
	// coordinator indefinitely; a slow or dead client should drop its own
	// datagram rather than stall broadcast to everyone else.
	Send(addr Addr, payload []byte) error

	// Close releases the transport's underlying resources.
	Close() error
}
