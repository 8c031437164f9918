package p2p

import (
	"bytes"
	"errors"
	"testing"
)

func TestHubAddAndRemove(t *testing.T) {
	hub := NewHub([20]byte{9})

	if _, err := hub.AddPeer("a", NewLogPeer()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := hub.AddPeer("a", NewLogPeer()); err == nil {
		t.Fatal("expected duplicate peer error")
	}
	if hub.Len() != 1 {
		t.Fatalf("len = %d, want 1", hub.Len())
	}

	hub.RemovePeer("a")
	if hub.Len() != 0 {
		t.Fatalf("len = %d after remove, want 0", hub.Len())
	}
	if _, ok := hub.Channel("a"); ok {
		t.Error("channel still present after remove")
	}
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	hub := NewHub([20]byte{})

	peers := map[string]*LogPeer{
		"a": NewLogPeer(),
		"b": NewLogPeer(),
		"c": NewLogPeer(),
	}
	for id, p := range peers {
		if _, err := hub.AddPeer(id, p); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	payload := []byte("fanout")
	if delivered := hub.Broadcast("a", payload); delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}

	if peers["a"].Len() != 0 {
		t.Errorf("sender received its own broadcast")
	}
	for _, id := range []string{"b", "c"} {
		entries := peers[id].Entries()
		if len(entries) != 1 {
			t.Fatalf("peer %s saw %d calls, want 1", id, len(entries))
		}
		if !bytes.Equal(entries[0].Payload, payload) {
			t.Errorf("peer %s got %q", id, entries[0].Payload)
		}
	}
}

func TestHubBroadcastDropsFailedPeer(t *testing.T) {
	hub := NewHub([20]byte{})

	good := NewLogPeer()
	bad := NewLogPeer()
	bad.SendErr = errors.New("connection reset")

	if _, err := hub.AddPeer("good", good); err != nil {
		t.Fatalf("add good: %v", err)
	}
	if _, err := hub.AddPeer("bad", bad); err != nil {
		t.Fatalf("add bad: %v", err)
	}

	if delivered := hub.Broadcast("nobody", []byte("x")); delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if hub.Len() != 1 {
		t.Fatalf("len = %d, want 1 (failed peer dropped)", hub.Len())
	}
	if _, ok := hub.Channel("bad"); ok {
		t.Error("failed peer still registered")
	}
}

func TestHubStats(t *testing.T) {
	hub := NewHub([20]byte{})
	if _, err := hub.AddPeer("a", NewLogPeer()); err != nil {
		t.Fatalf("add: %v", err)
	}

	hub.RecordIn("a", 128)
	hub.Broadcast("nobody", bytes.Repeat([]byte{1}, 64))

	st, ok := hub.Stats("a")
	if !ok {
		t.Fatal("no stats for peer a")
	}
	if st.BytesIn != 128 {
		t.Errorf("BytesIn = %d, want 128", st.BytesIn)
	}
	if st.BytesOut != 64 {
		t.Errorf("BytesOut = %d, want 64", st.BytesOut)
	}
}
