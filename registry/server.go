package registry

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackpal/bencode-go"
	"github.com/rs/zerolog"
)

const defaultAnnounceInterval = 1800 // seconds

// Registry is the HTTP peer registry: peers announce themselves for a
// network id and get back the other peers announced for it. Responses
// are bencoded.
type Registry struct {
	Server *http.Server
	Store  Storage

	log zerolog.Logger
}

func NewRegistry(addr string, store Storage, logger zerolog.Logger) *Registry {
	reg := &Registry{Store: store, log: logger}

	server := &http.Server{
		Addr:    addr,
		Handler: reg.Handler(),
	}
	reg.Server = server
	return reg
}

// Handler returns the route mux so tests can serve it without binding
// a listener.
func (reg *Registry) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/announce", reg.handleAnnounce)
	mux.HandleFunc("/scrape", reg.handleScrape)
	return mux
}

func (reg *Registry) Start() error {
	reg.log.Info().Str("addr", reg.Server.Addr).Msg("registry listening")
	return reg.Server.ListenAndServe()
}

func (reg *Registry) Shutdown(ctx context.Context) error {
	return reg.Server.Shutdown(ctx)
}

// url: GET /announce?network=<40 hex chars>&peer_id=<hex>&port=4000&event=started&numwant=50
func (reg *Registry) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	networkStr := r.URL.Query().Get("network")
	peerID := r.URL.Query().Get("peer_id")
	portStr := r.URL.Query().Get("port")
	event := r.URL.Query().Get("event")
	numWantStr := r.URL.Query().Get("numwant")

	if networkStr == "" || peerID == "" || portStr == "" {
		reg.sendErrorResponse(w, "Missing required parameters")
		return
	}

	network, err := decodeNetwork(networkStr)
	if err != nil {
		reg.sendErrorResponse(w, "Invalid network id")
		return
	}

	port, _ := strconv.Atoi(portStr)
	numWant, _ := strconv.Atoi(numWantStr)

	if numWant == 0 {
		numWant = 50
	}

	peer := &Peer{
		ID:       peerID,
		IP:       getClientIP(r),
		Port:     port,
		LastSeen: time.Now(),
	}

	switch event {
	case "started":
		err = reg.Store.AddPeer(network, peer)

	case "stopped":
		err = reg.Store.RemovePeer(network, peerID)
		if err != nil {
			reg.sendErrorResponse(w, "Failed to remove peer")
			return
		}
		// Don't return a peer list for stopped events
		reg.sendAnnounceResponse(w, []*Peer{}, defaultAnnounceInterval)
		return

	default:
		// Regular update (empty event or periodic announce)
		err = reg.Store.AddPeer(network, peer)
	}

	if err != nil {
		reg.sendErrorResponse(w, "Storage error")
		return
	}

	peers, err := reg.Store.GetPeers(network, numWant)
	if err != nil {
		reg.sendErrorResponse(w, "Failed to get peers")
		return
	}

	filteredPeers := make([]*Peer, 0)
	for _, p := range peers {
		if p.ID != peerID {
			filteredPeers = append(filteredPeers, p)
		}
	}

	reg.log.Debug().
		Str("peer", peerID).
		Str("event", event).
		Int("known", len(filteredPeers)).
		Msg("announce")

	reg.sendAnnounceResponse(w, filteredPeers, defaultAnnounceInterval)
}

// url: GET /scrape?network=<40 hex chars>
func (reg *Registry) handleScrape(w http.ResponseWriter, r *http.Request) {
	network, err := decodeNetwork(r.URL.Query().Get("network"))
	if err != nil {
		reg.sendErrorResponse(w, "Invalid network id")
		return
	}

	count, err := reg.Store.CountPeers(network)
	if err != nil {
		reg.sendErrorResponse(w, "Storage error")
		return
	}

	reg.writeBencode(w, map[string]interface{}{
		"peers": count,
	})
}

func decodeNetwork(networkStr string) ([20]byte, error) {
	decoded, err := hex.DecodeString(networkStr)
	if err != nil {
		return [20]byte{}, err
	}

	if len(decoded) != 20 {
		return [20]byte{}, fmt.Errorf("network id must be 20 bytes")
	}

	var network [20]byte
	copy(network[:], decoded)
	return network, nil
}

func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}

	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

func (reg *Registry) sendAnnounceResponse(w http.ResponseWriter, peers []*Peer, interval int) {
	reg.writeBencode(w, map[string]interface{}{
		"interval": interval,
		"peers":    convertPeersToList(peers),
	})
}

func convertPeersToList(peers []*Peer) []map[string]interface{} {
	result := make([]map[string]interface{}, len(peers))
	for i, peer := range peers {
		result[i] = map[string]interface{}{
			"peer id": peer.ID,
			"ip":      peer.IP,
			"port":    peer.Port,
		}
	}
	return result
}

func (reg *Registry) sendErrorResponse(w http.ResponseWriter, reason string) {
	reg.writeBencode(w, map[string]interface{}{
		"failure reason": reason,
	})
}

func (reg *Registry) writeBencode(w http.ResponseWriter, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, data); err != nil {
		http.Error(w, "Encoding error", 500)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write(buf.Bytes())
}
