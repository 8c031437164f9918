package p2p

import (
	"fmt"
	"io"
	"sync"
)

// Hub is the bookkeeping for one network id: every connected peer,
// wrapped in a ProtocolChannel, plus per-peer traffic stats. All
// traffic in or out of the hub goes through those channels.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*ProtocolChannel
	stats    map[string]*PeerStats
	network  [20]byte
}

func NewHub(network [20]byte) *Hub {
	return &Hub{
		channels: make(map[string]*ProtocolChannel),
		stats:    make(map[string]*PeerStats),
		network:  network,
	}
}

func (h *Hub) Network() [20]byte {
	return h.network
}

// AddPeer registers a peer under id and wraps it in a ProtocolChannel.
func (h *Hub) AddPeer(id string, p Peer) (*ProtocolChannel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.channels[id]; exists {
		return nil, fmt.Errorf("peer %x already exists", id)
	}
	ch := NewProtocolChannel(p)
	h.channels[id] = ch
	h.stats[id] = NewPeerStats()
	return ch, nil
}

// OnPeer is the transport callback: register the remote peer, closing
// the connection if the id is already taken.
func (h *Hub) OnPeer(p RemotePeer) error {
	if _, err := h.AddPeer(p.ID(), p); err != nil {
		_ = p.Close()
		return err
	}
	return nil
}

func (h *Hub) RemovePeer(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	ch, exists := h.channels[id]
	if !exists {
		return
	}
	if closer, ok := ch.Peer().(io.Closer); ok {
		_ = closer.Close()
	}
	delete(h.channels, id)
	delete(h.stats, id)
}

func (h *Hub) Channel(id string) (*ProtocolChannel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, exists := h.channels[id]
	return ch, exists
}

func (h *Hub) IDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.channels))
	for id := range h.channels {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// Broadcast sends data to every peer except from. Peers whose send
// fails are dropped. Returns the number of successful deliveries.
func (h *Hub) Broadcast(from string, data []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, ch := range h.channels {
		if id == from {
			continue
		}
		if err := ch.Send(data); err != nil {
			h.removeLocked(id)
			continue
		}
		if st, ok := h.stats[id]; ok {
			st.AddBytesOut(int64(len(data)))
		}
		delivered++
	}
	return delivered
}

// RecordIn credits inbound traffic from a peer.
func (h *Hub) RecordIn(id string, n int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.stats[id]; ok {
		st.AddBytesIn(n)
	}
}

func (h *Hub) Stats(id string) (*PeerStats, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, exists := h.stats[id]
	return st, exists
}

func (h *Hub) UpdateRates() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, st := range h.stats {
		st.UpdateRates()
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.channels {
		h.removeLocked(id)
	}
}
