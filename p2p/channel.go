package p2p

// ProtocolChannel forwards Send and Receive to the peer it was built
// around. It adds nothing on top: no framing, no buffering, no retries,
// no logging, and whatever error the peer returns is exactly what the
// caller gets back. The peer reference is fixed at construction.
//
// ProtocolChannel itself satisfies Peer, so channels compose with any
// other Peer wrapper (for example SecurePeer).
type ProtocolChannel struct {
	peer Peer
}

func NewProtocolChannel(peer Peer) *ProtocolChannel {
	return &ProtocolChannel{peer: peer}
}

// Send forwards data unmodified to the underlying peer.
func (c *ProtocolChannel) Send(data []byte) error {
	return c.peer.Send(data)
}

// Receive forwards data unmodified to the underlying peer.
func (c *ProtocolChannel) Receive(data []byte) error {
	return c.peer.Receive(data)
}

// Peer returns the wrapped peer.
func (c *ProtocolChannel) Peer() Peer {
	return c.peer
}
