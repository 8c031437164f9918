package p2p

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
)

type HandshakeFunc func(RemotePeer, [20]byte, string) error

func NOPHandshakeFunc(RemotePeer, [20]byte, string) error { return nil }

// Handshake structure:
// <pstrlen><pstr><reserved><network><peer_id>
// - pstrlen: 1 byte, length of pstr (17 for "wirechan protocol")
// - pstr: "wirechan protocol"
// - reserved: 8 bytes, all zero
// - network: 20 bytes, both sides must agree
// - peer_id: 20 bytes
func DefaultHandshakeFunc(peer RemotePeer, network [20]byte, localID string) error {
	hs := buildHandshake(network, localID)
	_, err := peer.Write(hs)
	if err != nil {
		return err
	}

	resp := make([]byte, len(hs))
	_, err = io.ReadFull(peer, resp)
	if err != nil {
		return err
	}

	pstrlen := int(resp[0])
	pstr := string(resp[1 : 1+pstrlen])
	if pstr != protocolString {
		return fmt.Errorf("unexpected protocol: %s", pstr)
	}

	receivedNetwork := resp[1+pstrlen+8 : 1+pstrlen+8+20]
	if !bytes.Equal(receivedNetwork, network[:]) {
		return fmt.Errorf("network mismatch: expected %s got %s",
			hex.EncodeToString(network[:]),
			hex.EncodeToString(receivedNetwork))
	}

	receivedPeerID := string(resp[1+pstrlen+8+20:])
	peer.SetID(receivedPeerID)
	return nil
}

const protocolString = "wirechan protocol"

func buildHandshake(network [20]byte, localPeerID string) []byte {
	buf := make([]byte, 49+len(protocolString)) // 1 + pstrlen + 8 + 20 + 20

	buf[0] = byte(len(protocolString))
	copy(buf[1:], []byte(protocolString))
	// reserved 8 bytes already zero
	copy(buf[1+len(protocolString)+8:], network[:])
	copy(buf[1+len(protocolString)+8+20:], []byte(localPeerID))

	return buf
}
