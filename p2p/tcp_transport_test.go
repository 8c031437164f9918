package p2p

import (
	"bytes"
	"testing"
	"time"
)

func TestTCPTransportDeliversToConsumer(t *testing.T) {
	server := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  NOPHandshakeFunc,
	})
	if err := server.ListenAndAccept(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	peerCh := make(chan RemotePeer, 1)
	client := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  NOPHandshakeFunc,
		OnPeer: func(p RemotePeer) error {
			peerCh <- p
			return nil
		},
	})
	if err := client.Dial(server.Addr()); err != nil {
		t.Fatalf("dial: %v", err)
	}

	var peer RemotePeer
	select {
	case peer = <-peerCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound peer")
	}

	payload := []byte("over the wire")
	if err := peer.Send(payload); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case rpc := <-server.Consume():
		if !bytes.Equal(rpc.Payload, payload) {
			t.Errorf("payload mismatch: got %q, want %q", rpc.Payload, payload)
		}
		if rpc.From == "" {
			t.Errorf("rpc.From not set")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for rpc")
	}
}

func TestTCPTransportHandshakeSetsPeerID(t *testing.T) {
	network := [20]byte{1, 2, 3}

	acceptedCh := make(chan RemotePeer, 1)
	server := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  DefaultHandshakeFunc,
		Network:    network,
		OnPeer: func(p RemotePeer) error {
			acceptedCh <- p
			return nil
		},
	})
	if err := server.ListenAndAccept(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	client := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  DefaultHandshakeFunc,
		Network:    network,
	})
	if err := client.Dial(server.Addr()); err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case peer := <-acceptedCh:
		if peer.ID() != client.LocalID() {
			t.Errorf("server saw peer id %x, want %x", peer.ID(), client.LocalID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handshake")
	}
}

func TestTCPTransportHandshakeRejectsWrongNetwork(t *testing.T) {
	acceptedCh := make(chan RemotePeer, 1)
	server := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  DefaultHandshakeFunc,
		Network:    [20]byte{1},
		OnPeer: func(p RemotePeer) error {
			acceptedCh <- p
			return nil
		},
	})
	if err := server.ListenAndAccept(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	client := NewTCPTransport(TCPTransportOpts{
		ListenAddr: "127.0.0.1:0",
		Handshake:  DefaultHandshakeFunc,
		Network:    [20]byte{2},
	})
	if err := client.Dial(server.Addr()); err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case <-acceptedCh:
		t.Fatal("peer accepted despite network mismatch")
	case <-time.After(500 * time.Millisecond):
	}
}
