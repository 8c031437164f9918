package hubserver

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doongjohn/wirechan/client"
	"github.com/doongjohn/wirechan/p2p"
)

type HubServerOpts struct {
	Transport        p2p.Transport
	TCPTransportOpts p2p.TCPTransportOpts

	// RegistryURL, when set, makes the server announce itself and dial
	// the peers the registry returns.
	RegistryURL      string
	AnnounceInterval time.Duration

	// Sinks are local peers that get a copy of every relayed payload.
	Sinks []p2p.Peer

	Logger zerolog.Logger
}

// HubServer accepts peers on a transport and relays every data message
// to all other connected peers. Each peer, remote or local sink, sits
// behind a ProtocolChannel owned by the hub.
type HubServer struct {
	HubServerOpts

	hub   *p2p.Hub
	sinks []*p2p.ProtocolChannel

	localID string

	quitch   chan struct{}
	stopOnce sync.Once
	log      zerolog.Logger
}

func NewHubServer(opts HubServerOpts) *HubServer {
	if opts.AnnounceInterval == 0 {
		opts.AnnounceInterval = 60 * time.Second
	}

	hs := &HubServer{
		HubServerOpts: opts,
		hub:           p2p.NewHub(opts.TCPTransportOpts.Network),
		quitch:        make(chan struct{}),
		log:           opts.Logger,
	}

	for _, sink := range opts.Sinks {
		hs.sinks = append(hs.sinks, p2p.NewProtocolChannel(sink))
	}

	// prefer a transport supplied by caller; otherwise create one
	if opts.Transport != nil {
		hs.Transport = opts.Transport
		if tt, ok := hs.Transport.(*p2p.TCPTransport); ok {
			tt.OnPeer = hs.hub.OnPeer
			hs.localID = tt.LocalID()
		}
	} else {
		tcpTransport := p2p.NewTCPTransport(opts.TCPTransportOpts)
		tcpTransport.OnPeer = hs.hub.OnPeer
		hs.Transport = tcpTransport
		hs.localID = tcpTransport.LocalID()
	}

	return hs
}

func (hs *HubServer) Hub() *p2p.Hub {
	return hs.hub
}

func (hs *HubServer) PeerID() string {
	return hs.localID
}

func (hs *HubServer) Addr() string {
	return hs.Transport.Addr()
}

// Start listens, bootstraps from the registry if configured, and runs
// the relay loop until Stop is called.
func (hs *HubServer) Start() error {
	if err := hs.Transport.ListenAndAccept(); err != nil {
		return err
	}

	if hs.RegistryURL != "" {
		if err := hs.bootstrap(); err != nil {
			hs.log.Warn().Err(err).Msg("registry bootstrap failed")
		}
		go hs.announceLoop()
	}

	hs.loop()
	return nil
}

func (hs *HubServer) Stop() {
	hs.stopOnce.Do(func() {
		close(hs.quitch)
		hs.Transport.Close()
		hs.hub.Close()
	})
}

// Dial connects to another hub or peer directly.
func (hs *HubServer) Dial(addr string) error {
	return hs.Transport.Dial(addr)
}

// SendData relays data to every connected peer.
func (hs *HubServer) SendData(data []byte) int {
	payload := append([]byte{p2p.MsgData}, data...)
	return hs.hub.Broadcast("", payload)
}

func (hs *HubServer) loop() {
	defer hs.log.Info().Msg("hub server stopped")

	for {
		select {
		case rpc := <-hs.Transport.Consume():
			hs.handleRPC(rpc)
		case <-hs.quitch:
			return
		}
	}
}

func (hs *HubServer) registryClient() (*client.RegistryClient, error) {
	tt, ok := hs.Transport.(*p2p.TCPTransport)
	if !ok {
		return nil, fmt.Errorf("registry announce needs a tcp transport")
	}
	return client.NewRegistryClient(hex.EncodeToString([]byte(hs.localID)), tt.Port()), nil
}

func (hs *HubServer) bootstrap() error {
	rc, err := hs.registryClient()
	if err != nil {
		return err
	}

	resp, err := rc.Announce(hs.RegistryURL, hs.hub.Network(), "started")
	if err != nil {
		return err
	}

	for _, peer := range resp.Peers {
		addr := fmt.Sprintf("%s:%d", peer.IP, peer.Port)
		hs.log.Info().Str("addr", addr).Msg("dialing registry peer")
		if err := hs.Dial(addr); err != nil {
			hs.log.Warn().Err(err).Str("addr", addr).Msg("dial failed")
		}
	}
	return nil
}

func (hs *HubServer) announceLoop() {
	rc, err := hs.registryClient()
	if err != nil {
		return
	}

	ticker := time.NewTicker(hs.AnnounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := rc.Announce(hs.RegistryURL, hs.hub.Network(), ""); err != nil {
				hs.log.Warn().Err(err).Msg("periodic announce failed")
			}
		case <-hs.quitch:
			_, _ = rc.Announce(hs.RegistryURL, hs.hub.Network(), "stopped")
			return
		}
	}
}
