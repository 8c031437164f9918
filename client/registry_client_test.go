package client

import (
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/doongjohn/wirechan/registry"
)

func newTestRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	reg := registry.NewRegistry(":0", registry.NewMemoryStorage(), zerolog.Nop())
	srv := httptest.NewServer(reg.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistryClientAnnounce(t *testing.T) {
	srv := newTestRegistry(t)
	network := [20]byte{0xde, 0xad}

	c := NewRegistryClient("aa01", 4001)
	resp, err := c.Announce(srv.URL, network, "started")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if resp.Interval <= 0 {
		t.Errorf("interval not positive")
	}
	if len(resp.Peers) != 0 {
		t.Errorf("first peer should see empty list, got %d", len(resp.Peers))
	}
}

func TestRegistryClientMultiplePeers(t *testing.T) {
	srv := newTestRegistry(t)
	network := [20]byte{0xde, 0xad}

	peers := []struct {
		id   string
		port int
	}{
		{"aa01", 4001},
		{"aa02", 4002},
		{"aa03", 4003},
	}
	clients := make([]*RegistryClient, len(peers))
	for i, p := range peers {
		clients[i] = NewRegistryClient(p.id, p.port)
		if _, err := clients[i].Announce(srv.URL, network, "started"); err != nil {
			t.Fatalf("peer %d announce: %v", i, err)
		}
	}

	resp, err := clients[0].Announce(srv.URL, network, "")
	if err != nil {
		t.Fatalf("peer 0 update: %v", err)
	}
	if len(resp.Peers) != 2 {
		t.Fatalf("expected 2 other peers, got %d", len(resp.Peers))
	}
	for _, p := range resp.Peers {
		if p.PeerID == "aa01" {
			t.Errorf("announce returned the announcing peer itself")
		}
		if p.Port == 0 {
			t.Errorf("peer %s has no port", p.PeerID)
		}
	}
}

func TestRegistryClientScrape(t *testing.T) {
	srv := newTestRegistry(t)
	network := [20]byte{0x01}

	c := NewRegistryClient("aa01", 4001)
	if _, err := c.Announce(srv.URL, network, "started"); err != nil {
		t.Fatalf("announce: %v", err)
	}

	count, err := c.Scrape(srv.URL, network)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if count != 1 {
		t.Errorf("scrape count = %d, want 1", count)
	}
}

func TestRegistryClientStopped(t *testing.T) {
	srv := newTestRegistry(t)
	network := [20]byte{0x02}

	a := NewRegistryClient("aa01", 4001)
	b := NewRegistryClient("aa02", 4002)

	if _, err := a.Announce(srv.URL, network, "started"); err != nil {
		t.Fatalf("a announce: %v", err)
	}
	if _, err := b.Announce(srv.URL, network, "started"); err != nil {
		t.Fatalf("b announce: %v", err)
	}

	if _, err := a.Announce(srv.URL, network, "stopped"); err != nil {
		t.Fatalf("a stop: %v", err)
	}

	resp, err := b.Announce(srv.URL, network, "")
	if err != nil {
		t.Fatalf("b update: %v", err)
	}
	if len(resp.Peers) != 0 {
		t.Errorf("expected aa01 gone, got %d peers", len(resp.Peers))
	}
}
