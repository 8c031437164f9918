package p2p

import (
	"bytes"
	"testing"
)

func sessionKeys(t *testing.T) (initSend, initRecv, respSend, respRecv []byte) {
	t.Helper()

	privA, pubA, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("keypair A: %v", err)
	}
	privB, pubB, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("keypair B: %v", err)
	}

	initSend, initRecv, err = DeriveSessionKeys(privA, pubB, true)
	if err != nil {
		t.Fatalf("derive initiator: %v", err)
	}
	respSend, respRecv, err = DeriveSessionKeys(privB, pubA, false)
	if err != nil {
		t.Fatalf("derive responder: %v", err)
	}
	return
}

func TestDeriveSessionKeysAgree(t *testing.T) {
	initSend, initRecv, respSend, respRecv := sessionKeys(t)

	if !bytes.Equal(initSend, respRecv) {
		t.Errorf("initiator send key != responder recv key")
	}
	if !bytes.Equal(initRecv, respSend) {
		t.Errorf("initiator recv key != responder send key")
	}
	if bytes.Equal(initSend, initRecv) {
		t.Errorf("send and recv keys should differ")
	}
}

func TestSecurePeerRoundTrip(t *testing.T) {
	initSend, initRecv, respSend, respRecv := sessionKeys(t)

	// initiator sends: its inner peer records the ciphertext
	wireA := NewLogPeer()
	sender, err := NewSecurePeer(wireA, initSend, initRecv)
	if err != nil {
		t.Fatalf("sender: %v", err)
	}

	// responder receives: its inner peer records the plaintext
	sinkB := NewLogPeer()
	receiver, err := NewSecurePeer(sinkB, respSend, respRecv)
	if err != nil {
		t.Fatalf("receiver: %v", err)
	}

	plaintext := []byte("secret payload")
	if err := sender.Send(plaintext); err != nil {
		t.Fatalf("send: %v", err)
	}

	ciphertext := wireA.Entries()[0].Payload
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("payload was not encrypted")
	}

	if err := receiver.Receive(ciphertext); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if got := sinkB.Entries()[0].Payload; !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestSecurePeerNonceAdvances(t *testing.T) {
	initSend, initRecv, respSend, respRecv := sessionKeys(t)

	wire := NewLogPeer()
	sender, err := NewSecurePeer(wire, initSend, initRecv)
	if err != nil {
		t.Fatalf("sender: %v", err)
	}
	sink := NewLogPeer()
	receiver, err := NewSecurePeer(sink, respSend, respRecv)
	if err != nil {
		t.Fatalf("receiver: %v", err)
	}

	payloads := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, p := range payloads {
		if err := sender.Send(p); err != nil {
			t.Fatalf("send %q: %v", p, err)
		}
	}

	// same plaintext must never seal to the same ciphertext twice
	if err := sender.Send(payloads[0]); err != nil {
		t.Fatalf("resend: %v", err)
	}
	entries := wire.Entries()
	if bytes.Equal(entries[0].Payload, entries[3].Payload) {
		t.Error("nonce did not advance: identical ciphertexts")
	}

	// frames decrypt in order
	for i, p := range payloads {
		if err := receiver.Receive(entries[i].Payload); err != nil {
			t.Fatalf("receive frame %d: %v", i, err)
		}
		if got := sink.Entries()[i].Payload; !bytes.Equal(got, p) {
			t.Errorf("frame %d: got %q, want %q", i, got, p)
		}
	}
}

func TestSecurePeerRejectsTampered(t *testing.T) {
	initSend, initRecv, respSend, respRecv := sessionKeys(t)

	wire := NewLogPeer()
	sender, _ := NewSecurePeer(wire, initSend, initRecv)
	sink := NewLogPeer()
	receiver, _ := NewSecurePeer(sink, respSend, respRecv)

	if err := sender.Send([]byte("authentic")); err != nil {
		t.Fatalf("send: %v", err)
	}

	ciphertext := wire.Entries()[0].Payload
	ciphertext[0] ^= 0xff

	if err := receiver.Receive(ciphertext); err == nil {
		t.Fatal("expected decrypt failure for tampered frame")
	}
	if sink.Len() != 0 {
		t.Errorf("tampered frame reached the inner peer")
	}
}
