package p2p

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net"
)

var ErrNoConsumer = errors.New("tcp peer has no consume channel")

// TCPPeer is a Peer backed by a TCP connection. Send frames the
// payload and writes it to the wire; Receive hands inbound payloads to
// the owning transport's consume stream.
type TCPPeer struct {
	net.Conn
	id       string
	outbound bool
	enc      Encoder
	deliver  chan<- RPC
}

func NewTCPPeer(conn net.Conn, outbound bool, enc Encoder, deliver chan<- RPC) *TCPPeer {
	return &TCPPeer{Conn: conn, outbound: outbound, enc: enc, deliver: deliver}
}

func (p *TCPPeer) Send(data []byte) error {
	framed, err := p.enc.Encode(&RPC{Payload: data})
	if err != nil {
		return err
	}
	_, err = p.Write(framed)
	return err
}

func (p *TCPPeer) Receive(data []byte) error {
	if p.deliver == nil {
		return ErrNoConsumer
	}
	from := p.id
	if from == "" {
		from = p.RemoteAddr().String()
	}
	p.deliver <- RPC{From: from, Payload: data}
	return nil
}

func (p *TCPPeer) SetID(id string) {
	p.id = id
}

func (p *TCPPeer) ID() string {
	return p.id
}

type OnPeerFunc func(RemotePeer) error

type TCPTransportOpts struct {
	ListenAddr string
	Handshake  HandshakeFunc
	Encoder    Encoder
	Decoder    Decoder
	OnPeer     OnPeerFunc
	Network    [20]byte
}

type TCPTransport struct {
	TCPTransportOpts
	listener net.Listener
	rpcch    chan RPC
	localID  string // our own peer ID
}

func NewTCPTransport(opts TCPTransportOpts) *TCPTransport {
	if opts.Encoder == nil {
		opts.Encoder = &BinaryEncoder{}
	}
	if opts.Decoder == nil {
		opts.Decoder = &BinaryDecoder{}
	}
	return &TCPTransport{
		TCPTransportOpts: opts,
		rpcch:            make(chan RPC, 1024),
		localID:          generate20ByteID(),
	}
}

func (t *TCPTransport) Addr() string {
	return t.listener.Addr().String()
}

func (t *TCPTransport) Port() int {
	return t.listener.Addr().(*net.TCPAddr).Port
}

func (t *TCPTransport) LocalID() string {
	return t.localID
}

func (t *TCPTransport) Consume() <-chan RPC {
	return t.rpcch
}

func (t *TCPTransport) Close() error {
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

func (t *TCPTransport) ListenAndAccept() error {
	var err error
	ln, err := net.Listen("tcp", t.ListenAddr)
	if err != nil {
		return err
	}
	t.listener = ln
	go t.acceptLoop()

	log.Printf("wirechan tcp peer listening on %s\n", t.listener.Addr().String())

	return nil
}

func (t *TCPTransport) Dial(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	go t.handleConn(conn, true)
	return nil
}

func (t *TCPTransport) acceptLoop() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			fmt.Printf("tcp accept error: %v\n", err)
			continue
		}

		go t.handleConn(conn, false)
	}
}

// handleConn owns one connection from handshake to teardown. Inbound
// payloads flow through a ProtocolChannel around the peer, so the wire
// path and any local Peer wrapper behave identically.
func (t *TCPTransport) handleConn(conn net.Conn, outbound bool) {
	var err error
	defer func() {
		conn.Close()
	}()
	peer := NewTCPPeer(conn, outbound, t.Encoder, t.rpcch)
	if t.Handshake != nil {
		if err = t.Handshake(peer, t.Network, t.localID); err != nil {
			return
		}
	}

	if t.OnPeer != nil {
		if err = t.OnPeer(peer); err != nil {
			return
		}
	}

	ch := NewProtocolChannel(peer)

	// read loop
	for {
		rpc := RPC{}
		err = t.Decoder.Decode(conn, &rpc)
		if err != nil {
			return
		}

		if err = ch.Receive(rpc.Payload); err != nil {
			return
		}
	}
}

func generate20ByteID() string {
	id := make([]byte, 20)
	if _, err := rand.Read(id); err != nil {
		panic(err) // should never happen
	}
	return string(id) // raw bytes
}
