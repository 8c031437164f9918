package p2p

import (
	"fmt"
	"io"
	"net"
	"sync"
)

// Peer is anything that can be handed bytes in either direction:
// Send pushes data towards the peer, Receive hands the peer data that
// arrived for it. Implementations decide what those mean (write to a
// socket, print to a console, append to a log).
type Peer interface {
	Send(data []byte) error
	Receive(data []byte) error
}

// RemotePeer is a Peer on the far side of a network connection.
type RemotePeer interface {
	net.Conn
	Peer
	ID() string
	SetID(id string)
}

// ConsolePeer prints every payload it is handed. Useful as a local
// sink behind a ProtocolChannel.
type ConsolePeer struct {
	W    io.Writer
	Name string

	mu sync.Mutex
}

func NewConsolePeer(w io.Writer, name string) *ConsolePeer {
	return &ConsolePeer{W: w, Name: name}
}

func (c *ConsolePeer) Send(data []byte) error {
	return c.write("send", data)
}

func (c *ConsolePeer) Receive(data []byte) error {
	return c.write("recv", data)
}

func (c *ConsolePeer) write(dir string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.W, "[%s] %s %d bytes: %s\n", c.Name, dir, len(data), data)
	return err
}

// LogEntry is one recorded call on a LogPeer.
type LogEntry struct {
	Op      string // "send" or "receive"
	Payload []byte
}

// LogPeer records every call made on it. The payload is copied so the
// log stays stable even if the caller reuses its buffer.
type LogPeer struct {
	mu      sync.Mutex
	entries []LogEntry

	// SendErr / ReceiveErr, when set, are returned from the matching
	// operation after the call is recorded.
	SendErr    error
	ReceiveErr error
}

func NewLogPeer() *LogPeer {
	return &LogPeer{}
}

func (l *LogPeer) Send(data []byte) error {
	l.record("send", data)
	return l.SendErr
}

func (l *LogPeer) Receive(data []byte) error {
	l.record("receive", data)
	return l.ReceiveErr
}

func (l *LogPeer) record(op string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	l.entries = append(l.entries, LogEntry{Op: op, Payload: cp})
}

func (l *LogPeer) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *LogPeer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
