package registry

import (
	"testing"
	"time"
)

func TestMemoryStorageAddGetRemove(t *testing.T) {
	store := NewMemoryStorage()
	network := [20]byte{1}

	peer := &Peer{ID: "aa01", IP: "10.0.0.1", Port: 4001, LastSeen: time.Now()}
	if err := store.AddPeer(network, peer); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := store.GetPeer("aa01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IP != "10.0.0.1" || got.Port != 4001 {
		t.Errorf("got %+v", got)
	}

	if err := store.RemovePeer(network, "aa01"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.GetPeer("aa01"); err == nil {
		t.Error("expected error for removed peer")
	}
}

func TestMemoryStorageNetworksAreIsolated(t *testing.T) {
	store := NewMemoryStorage()
	netA := [20]byte{1}
	netB := [20]byte{2}

	store.AddPeer(netA, &Peer{ID: "a", Port: 1})
	store.AddPeer(netB, &Peer{ID: "b", Port: 2})

	peers, err := store.GetPeers(netA, 0)
	if err != nil {
		t.Fatalf("get peers: %v", err)
	}
	if len(peers) != 1 || peers[0].ID != "a" {
		t.Errorf("network A peers: %+v", peers)
	}

	count, err := store.CountPeers(netB)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("network B count = %d, want 1", count)
	}
}

func TestMemoryStorageMaxPeers(t *testing.T) {
	store := NewMemoryStorage()
	network := [20]byte{3}

	for _, id := range []string{"a", "b", "c", "d"} {
		store.AddPeer(network, &Peer{ID: id})
	}

	peers, err := store.GetPeers(network, 2)
	if err != nil {
		t.Fatalf("get peers: %v", err)
	}
	if len(peers) != 2 {
		t.Errorf("got %d peers, want 2", len(peers))
	}
}
