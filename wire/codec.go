package wire

import (
	"bytes"

	"github.com/mesa-game/mesa/internal"
	"github.com/mesa-game/mesa/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Encode writes the header and payload of pk into a new byte slice.
func Encode(pk packet.Packet) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()

	header := &packet.Header{}
	header.PacketID = pk.ID()
	_ = header.Write(buf)

	pk.Marshal(protocol.NewWriter(buf, 0))
	return append([]byte(nil), buf.Bytes()...)
}

// Decode reads a packet previously written by Encode. Truncated or unknown packets return an error.
func Decode(b []byte) (pk packet.Packet, err error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()
	buf.Write(b)

	h := &packet.Header{}
	if err := h.Read(buf); err != nil {
		return nil, oerror.New("error reading packet header: %v", err)
	}

	pkFunc, ok := pool[h.PacketID]
	if !ok {
		return nil, oerror.New("packet not found in packet pool: %d", h.PacketID)
	}

	// The protocol reader panics on malformed data.
	defer func() {
		if r := recover(); r != nil {
			pk, err = nil, oerror.New("error decoding packet %d: %v", h.PacketID, r)
		}
	}()

	pk = pkFunc()
	pk.Marshal(protocol.NewReader(buf, 0, false))
	if buf.Len() != 0 {
		return nil, oerror.New("packet %d has %d unread bytes", h.PacketID, buf.Len())
	}
	return pk, nil
}
