package hubserver

import (
	"github.com/doongjohn/wirechan/p2p"
)

func (hs *HubServer) handleRPC(rpc p2p.RPC) {
	if len(rpc.Payload) == 0 {
		hs.log.Debug().Str("from", rpc.From).Msg("keep-alive")
		return
	}

	msgType := rpc.Payload[0]
	data := rpc.Payload[1:]

	switch msgType {
	case p2p.MsgData:
		hs.handleData(rpc, data)
	case p2p.MsgPing:
		hs.handlePing(rpc)
	case p2p.MsgPong:
		hs.log.Debug().Str("from", rpc.From).Msg("pong")
	case p2p.MsgLeave:
		hs.log.Info().Str("from", rpc.From).Msg("peer left")
		hs.hub.RemovePeer(rpc.From)
	default:
		hs.log.Warn().Str("from", rpc.From).Uint8("type", msgType).Msg("unknown message type")
	}
}

// handleData relays the message to every other peer and mirrors the
// payload into the local sinks.
func (hs *HubServer) handleData(rpc p2p.RPC, data []byte) {
	hs.hub.RecordIn(rpc.From, int64(len(data)))

	delivered := hs.hub.Broadcast(rpc.From, rpc.Payload)
	hs.log.Debug().
		Str("from", rpc.From).
		Int("bytes", len(data)).
		Int("delivered", delivered).
		Msg("relayed data")

	for _, sink := range hs.sinks {
		if err := sink.Receive(data); err != nil {
			hs.log.Warn().Err(err).Msg("sink receive failed")
		}
	}
}

func (hs *HubServer) handlePing(rpc p2p.RPC) {
	ch, ok := hs.hub.Channel(rpc.From)
	if !ok {
		return
	}
	if err := ch.Send([]byte{p2p.MsgPong}); err != nil {
		hs.log.Warn().Err(err).Str("to", rpc.From).Msg("pong failed")
	}
}
