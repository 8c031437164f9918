package p2p

import "fmt"

const (
	MsgData  = 0x01
	MsgPing  = 0x02
	MsgPong  = 0x03
	MsgLeave = 0x04
)

// RPC is one inbound message as seen by a transport consumer.
type RPC struct {
	From    string
	Payload []byte
}

func (r RPC) String() string {
	return fmt.Sprintf("RPC{from: %s, payload: %d bytes}", r.From, len(r.Payload))
}
