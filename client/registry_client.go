package client

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jackpal/bencode-go"
)

// RegistryClient talks to a wirechan registry over HTTP.
type RegistryClient struct {
	client *http.Client
	peerID string
	port   int
}

type AnnounceResponse struct {
	Interval int
	Peers    []Peer
}

type Peer struct {
	PeerID string
	IP     string
	Port   int
}

func NewRegistryClient(peerID string, port int) *RegistryClient {
	return &RegistryClient{
		client: &http.Client{Timeout: 30 * time.Second},
		peerID: peerID,
		port:   port,
	}
}

// Announce registers this peer for network and returns the other peers
// the registry knows about. event is "started", "stopped" or empty for
// a periodic refresh.
func (rc *RegistryClient) Announce(registryURL string, network [20]byte, event string) (*AnnounceResponse, error) {
	announceURL, err := rc.buildURL(registryURL, "/announce", network, event)
	if err != nil {
		return nil, fmt.Errorf("failed to build announce URL: %w", err)
	}

	body, err := rc.get(announceURL)
	if err != nil {
		return nil, err
	}

	if reason, ok := body["failure reason"].(string); ok {
		return nil, fmt.Errorf("registry error: %s", reason)
	}

	resp := &AnnounceResponse{}
	if interval, ok := body["interval"].(int64); ok {
		resp.Interval = int(interval)
	}

	rawPeers, _ := body["peers"].([]interface{})
	for _, raw := range rawPeers {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		peer := Peer{}
		if id, ok := entry["peer id"].(string); ok {
			peer.PeerID = id
		}
		if ip, ok := entry["ip"].(string); ok {
			peer.IP = ip
		}
		if port, ok := entry["port"].(int64); ok {
			peer.Port = int(port)
		}
		resp.Peers = append(resp.Peers, peer)
	}

	return resp, nil
}

// Scrape returns how many peers the registry holds for network.
func (rc *RegistryClient) Scrape(registryURL string, network [20]byte) (int, error) {
	scrapeURL, err := rc.buildURL(registryURL, "/scrape", network, "")
	if err != nil {
		return 0, fmt.Errorf("failed to build scrape URL: %w", err)
	}

	body, err := rc.get(scrapeURL)
	if err != nil {
		return 0, err
	}

	if reason, ok := body["failure reason"].(string); ok {
		return 0, fmt.Errorf("registry error: %s", reason)
	}

	count, _ := body["peers"].(int64)
	return int(count), nil
}

func (rc *RegistryClient) buildURL(registryURL, path string, network [20]byte, event string) (string, error) {
	u, err := url.Parse(registryURL)
	if err != nil {
		return "", err
	}
	u.Path = path

	q := url.Values{}
	q.Set("network", hex.EncodeToString(network[:]))
	q.Set("peer_id", rc.peerID)
	q.Set("port", strconv.Itoa(rc.port))
	if event != "" {
		q.Set("event", event)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (rc *RegistryClient) get(fullURL string) (map[string]interface{}, error) {
	resp, err := rc.client.Get(fullURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	decoded, err := bencode.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	body, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected registry response shape")
	}
	return body, nil
}
