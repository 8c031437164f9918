package p2p

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// SecurePeer wraps an inner Peer with ChaCha20-Poly1305 AEAD. Unlike
// ProtocolChannel it deliberately transforms the payload: Send seals
// plaintext before forwarding, Receive opens ciphertext before handing
// the plaintext on. Each direction keeps its own incrementing nonce, so
// both sides must process frames in order.
type SecurePeer struct {
	inner    Peer
	enc      cipher.AEAD
	dec      cipher.AEAD
	encNonce []byte
	decNonce []byte
	sendMu   sync.Mutex
	recvMu   sync.Mutex
}

func NewSecurePeer(inner Peer, sendKey, recvKey []byte) (*SecurePeer, error) {
	enc, err := chacha20poly1305.New(sendKey)
	if err != nil {
		return nil, fmt.Errorf("secure peer: send key: %w", err)
	}
	dec, err := chacha20poly1305.New(recvKey)
	if err != nil {
		return nil, fmt.Errorf("secure peer: recv key: %w", err)
	}
	return &SecurePeer{
		inner:    inner,
		enc:      enc,
		dec:      dec,
		encNonce: make([]byte, chacha20poly1305.NonceSize),
		decNonce: make([]byte, chacha20poly1305.NonceSize),
	}, nil
}

func (s *SecurePeer) Send(data []byte) error {
	s.sendMu.Lock()
	ciphertext := s.enc.Seal(nil, s.encNonce, data, nil)
	incrementNonce(s.encNonce)
	s.sendMu.Unlock()
	return s.inner.Send(ciphertext)
}

func (s *SecurePeer) Receive(data []byte) error {
	s.recvMu.Lock()
	plaintext, err := s.dec.Open(nil, s.decNonce, data, nil)
	if err != nil {
		s.recvMu.Unlock()
		return fmt.Errorf("secure peer: decrypt: %w", err)
	}
	incrementNonce(s.decNonce)
	s.recvMu.Unlock()
	return s.inner.Receive(plaintext)
}

// incrementNonce bumps the nonce by 1 in little-endian order so each
// frame uses a unique nonce.
func incrementNonce(nonce []byte) {
	for i := 0; i < len(nonce); i++ {
		nonce[i]++
		if nonce[i] != 0 {
			break
		}
	}
}

// GenerateKeyPair returns a fresh X25519 private/public key pair.
func GenerateKeyPair() (priv, pub []byte, err error) {
	priv = make([]byte, curve25519.ScalarSize)
	if _, err = rand.Read(priv); err != nil {
		return nil, nil, err
	}
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// DeriveSessionKeys computes the send/receive AEAD keys for one side of
// a session. The initiator's send key is the responder's receive key
// and vice versa.
func DeriveSessionKeys(priv, peerPub []byte, initiator bool) (sendKey, recvKey []byte, err error) {
	shared, err := curve25519.X25519(priv, peerPub)
	if err != nil {
		return nil, nil, fmt.Errorf("secure peer: key exchange: %w", err)
	}

	kdf := hkdf.New(sha256.New, shared, nil, []byte("wirechan session keys"))
	keys := make([]byte, 2*chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, keys); err != nil {
		return nil, nil, fmt.Errorf("secure peer: derive keys: %w", err)
	}

	a := keys[:chacha20poly1305.KeySize]
	b := keys[chacha20poly1305.KeySize:]
	if initiator {
		return a, b, nil
	}
	return b, a, nil
}
