package wire

import (
	"github.com/mesa-game/mesa/simulation"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

const (
	IDInputCommand uint32 = 0x1f0 + iota
	IDSyncState
	IDTimeRequest
	IDTimeResponse
)

// pool holds a constructor for every packet that may be decoded.
var pool = map[uint32]func() packet.Packet{
	IDInputCommand: func() packet.Packet { return &InputCommand{} },
	IDSyncState:    func() packet.Packet { return &SyncState{} },
	IDTimeRequest:  func() packet.Packet { return &TimeRequest{} },
	IDTimeResponse: func() packet.Packet { return &TimeResponse{} },
}

// InputCommand is sent by a client for every frame it predicted.
type InputCommand struct {
	Frame int64
	Cmd   simulation.InputCmd
}

// ID ...
func (*InputCommand) ID() uint32 {
	return IDInputCommand
}

func (pk *InputCommand) Marshal(io protocol.IO) {
	io.Varint64(&pk.Frame)
	pk.Cmd.NetSerialize(io)
}

// SyncState is the authoritative state of an entity at a frame, sent by the server.
type SyncState struct {
	Frame int64
	State simulation.SyncState
}

// ID ...
func (*SyncState) ID() uint32 {
	return IDSyncState
}

func (pk *SyncState) Marshal(io protocol.IO) {
	io.Varint64(&pk.Frame)
	pk.State.NetSerialize(io)
}

// TimeRequest asks the server for its current time. ClientTimestamp is echoed back in the response.
type TimeRequest struct {
	ClientTimestamp int64
}

// ID ...
func (*TimeRequest) ID() uint32 {
	return IDTimeRequest
}

func (pk *TimeRequest) Marshal(io protocol.IO) {
	io.Int64(&pk.ClientTimestamp)
}

// TimeResponse answers a TimeRequest. Both timestamps are in nanoseconds, each on the clock of its sender.
type TimeResponse struct {
	ClientTimestamp int64
	ServerTimestamp int64
}

// ID ...
func (*TimeResponse) ID() uint32 {
	return IDTimeResponse
}

func (pk *TimeResponse) Marshal(io protocol.IO) {
	io.Int64(&pk.ClientTimestamp)
	io.Int64(&pk.ServerTimestamp)
}
