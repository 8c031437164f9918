package registry

import (
	"encoding/hex"
	"fmt"
	"sync"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	peers    map[string]*Peer
	networks map[string]map[string]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		peers:    make(map[string]*Peer),
		networks: make(map[string]map[string]struct{}),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) AddPeer(network [20]byte, peer *Peer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	netKey := hex.EncodeToString(network[:])

	m.peers[peer.ID] = peer

	if m.networks[netKey] == nil {
		m.networks[netKey] = make(map[string]struct{})
	}
	m.networks[netKey][peer.ID] = struct{}{}

	return nil
}

func (m *MemoryStorage) RemovePeer(network [20]byte, peerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	netKey := hex.EncodeToString(network[:])

	delete(m.peers, peerID)
	if m.networks[netKey] != nil {
		delete(m.networks[netKey], peerID)
	}

	return nil
}

func (m *MemoryStorage) GetPeer(peerID string) (*Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	peer, exists := m.peers[peerID]
	if !exists {
		return nil, fmt.Errorf("peer not found: %s", peerID)
	}
	return peer, nil
}

func (m *MemoryStorage) GetPeers(network [20]byte, maxPeers int) ([]*Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	netKey := hex.EncodeToString(network[:])
	peerIDs := m.networks[netKey]
	if peerIDs == nil {
		return []*Peer{}, nil
	}

	peers := make([]*Peer, 0, len(peerIDs))
	for id := range peerIDs {
		peer, exists := m.peers[id]
		if !exists {
			continue
		}
		peers = append(peers, peer)
		if maxPeers > 0 && len(peers) >= maxPeers {
			break
		}
	}
	return peers, nil
}

func (m *MemoryStorage) CountPeers(network [20]byte) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	netKey := hex.EncodeToString(network[:])
	return len(m.networks[netKey]), nil
}
