package p2p

// Helpers layered on top of Peer as plain functions, so no Peer
// implementation has to carry them.

// SendString sends s through p as raw bytes.
func SendString(p Peer, s string) error {
	return p.Send([]byte(s))
}

// SendAll sends data to every peer in order and stops at the first
// failure.
func SendAll(data []byte, peers ...Peer) error {
	for _, p := range peers {
		if err := p.Send(data); err != nil {
			return err
		}
	}
	return nil
}
