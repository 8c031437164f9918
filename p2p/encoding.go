package p2p

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
)

const MaxMessageLength = 16 * 1024 * 1024

type Decoder interface {
	Decode(io.Reader, *RPC) error
}

type Encoder interface {
	Encode(*RPC) ([]byte, error)
}

// BinaryEncoder frames a payload with a 4-byte big-endian length prefix.
type BinaryEncoder struct{}

func (e *BinaryEncoder) Encode(rpc *RPC) ([]byte, error) {
	if len(rpc.Payload) > MaxMessageLength {
		return nil, fmt.Errorf("message length %d exceeds maximum allowed %d", len(rpc.Payload), MaxMessageLength)
	}

	buf := make([]byte, 4+len(rpc.Payload))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(rpc.Payload)))
	copy(buf[4:], rpc.Payload)
	return buf, nil
}

type BinaryDecoder struct {
	br *bufio.Reader
}

func (d *BinaryDecoder) Decode(r io.Reader, rpc *RPC) error {
	// Cache buffered reader - safe because each connection has its own decoder
	if d.br == nil {
		if br, ok := r.(*bufio.Reader); ok {
			d.br = br
		} else {
			d.br = bufio.NewReaderSize(r, 64*1024)
		}
	}

	var length uint32
	if err := binary.Read(d.br, binary.BigEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}

	if length == 0 {
		rpc.Payload = nil
		return nil
	}

	if length > MaxMessageLength {
		return fmt.Errorf("message length %d exceeds maximum allowed %d", length, MaxMessageLength)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(d.br, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF // not enough data yet
		}
		return err
	}

	rpc.Payload = buf
	return nil
}

// GOBEncoder / GOBDecoder are a drop-in alternative framing using gob.
// Slower and chattier than the binary framing, but self-describing.
type GOBEncoder struct{}

func (e *GOBEncoder) Encode(rpc *RPC) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rpc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type GOBDecoder struct{}

func (d *GOBDecoder) Decode(r io.Reader, rpc *RPC) error {
	return gob.NewDecoder(r).Decode(rpc)
}
