package p2p

import (
	"sync"
	"time"
)

// PeerStats tracks per-peer traffic counters for a Hub.
type PeerStats struct {
	mu sync.RWMutex

	BytesIn  int64
	BytesOut int64
	LastSeen time.Time

	inRate       float64
	outRate      float64
	lastStatTime time.Time
	lastBytesIn  int64
	lastBytesOut int64
}

func NewPeerStats() *PeerStats {
	now := time.Now()
	return &PeerStats{
		LastSeen:     now,
		lastStatTime: now,
	}
}

func (ps *PeerStats) AddBytesIn(n int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.BytesIn += n
	ps.LastSeen = time.Now()
}

func (ps *PeerStats) AddBytesOut(n int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.BytesOut += n
	ps.LastSeen = time.Now()
}

func (ps *PeerStats) UpdateRates() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(ps.lastStatTime).Seconds()
	if elapsed < 1 {
		return
	}

	ps.inRate = float64(ps.BytesIn-ps.lastBytesIn) / elapsed
	ps.outRate = float64(ps.BytesOut-ps.lastBytesOut) / elapsed

	ps.lastBytesIn = ps.BytesIn
	ps.lastBytesOut = ps.BytesOut
	ps.lastStatTime = now
}

func (ps *PeerStats) InRate() float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.inRate
}

func (ps *PeerStats) OutRate() float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.outRate
}

func (ps *PeerStats) Seen() time.Time {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.LastSeen
}
