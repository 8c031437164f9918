package registry

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	peerTTL    = 30 * time.Minute
	networkTTL = 2 * time.Hour
)

type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStorage(ctx context.Context, addr, password string, db int) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStorage{
		client: rdb,
		ctx:    ctx,
	}
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func peerKey(peerID string) string {
	return fmt.Sprintf("peer:%s", peerID)
}

func networkPeersKey(network [20]byte) string {
	return fmt.Sprintf("network:%s:peers", hex.EncodeToString(network[:]))
}

func (r *RedisStorage) AddPeer(network [20]byte, peer *Peer) error {
	pipe := r.client.Pipeline()

	pipe.HSet(r.ctx, peerKey(peer.ID), map[string]interface{}{
		"ip":        peer.IP,
		"port":      peer.Port,
		"last_seen": peer.LastSeen.Unix(),
	})

	pipe.SAdd(r.ctx, networkPeersKey(network), peer.ID)

	pipe.Expire(r.ctx, peerKey(peer.ID), peerTTL)
	pipe.Expire(r.ctx, networkPeersKey(network), networkTTL)

	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisStorage) RemovePeer(network [20]byte, peerID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(r.ctx, peerKey(peerID))
	pipe.SRem(r.ctx, networkPeersKey(network), peerID)

	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisStorage) GetPeer(peerID string) (*Peer, error) {
	result, err := r.client.HGetAll(r.ctx, peerKey(peerID)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("peer not found: %s", peerID)
	}

	port, _ := strconv.Atoi(result["port"])
	lastSeenUnix, _ := strconv.ParseInt(result["last_seen"], 10, 64)

	return &Peer{
		ID:       peerID,
		IP:       result["ip"],
		Port:     port,
		LastSeen: time.Unix(lastSeenUnix, 0),
	}, nil
}

func (r *RedisStorage) GetPeers(network [20]byte, maxPeers int) ([]*Peer, error) {
	ids, err := r.client.SMembers(r.ctx, networkPeersKey(network)).Result()
	if err != nil {
		return nil, err
	}

	peers := make([]*Peer, 0, len(ids))
	for _, id := range ids {
		peer, err := r.GetPeer(id)
		if err != nil {
			// entry expired but still in the set; drop it
			_ = r.client.SRem(r.ctx, networkPeersKey(network), id).Err()
			continue
		}
		peers = append(peers, peer)
		if maxPeers > 0 && len(peers) >= maxPeers {
			break
		}
	}
	return peers, nil
}

func (r *RedisStorage) CountPeers(network [20]byte) (int, error) {
	n, err := r.client.SCard(r.ctx, networkPeersKey(network)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
