package registry

import "time"

// Peer is one entry in the registry: where a wirechan peer can be
// dialed for a given network id.
type Peer struct {
	ID       string
	IP       string
	Port     int
	LastSeen time.Time
}

type Storage interface {
	AddPeer(network [20]byte, peer *Peer) error
	RemovePeer(network [20]byte, peerID string) error
	GetPeer(peerID string) (*Peer, error)
	GetPeers(network [20]byte, maxPeers int) ([]*Peer, error)
	CountPeers(network [20]byte) (int, error)
	Close() error
}
