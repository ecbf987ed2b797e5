package session

import (
	"bytes"
	"io"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/simulation"
	"github.com/mesa-game/mesa/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// CurrentRecordingVer is the version written into the header of new recordings. Recordings with another
// version cannot be decoded.
const CurrentRecordingVer int32 = 1

// maxRecordedBoxes is the most world boxes a recording header may hold.
const maxRecordedBoxes = 1 << 16

// Header describes everything a recorded run depends on besides its input.
type Header struct {
	Version int32
	Entity  string
	Shape   world.Shape
	Config  simulation.Config
	Boxes   []cube.BBox
	Spawn   simulation.SyncState
}

// Marshal ...
func (h *Header) Marshal(io protocol.IO) {
	io.Int32(&h.Version)
	if h.Version != CurrentRecordingVer {
		panic(oerror.New("unsupported recording version %d", h.Version))
	}
	io.String(&h.Entity)
	io.Vec3(&h.Shape.HalfExtents)
	marshalConfig(io, &h.Config)

	count := uint32(len(h.Boxes))
	io.Varuint32(&count)
	if count > maxRecordedBoxes {
		panic(oerror.New("recording holds %d boxes, at most %d are allowed", count, maxRecordedBoxes))
	}
	if int(count) != len(h.Boxes) {
		h.Boxes = make([]cube.BBox, 0, min(count, 1024))
		for range count {
			var bb cube.BBox
			marshalBBox(io, &bb)
			h.Boxes = append(h.Boxes, bb)
		}
	} else {
		for i := range h.Boxes {
			marshalBBox(io, &h.Boxes[i])
		}
	}
	h.Spawn.NetSerialize(io)
}

// Frame is a single recorded tick: the input it was given and the state it produced.
type Frame struct {
	Step     simulation.TimeStep
	Cmd      simulation.InputCmd
	Debug    simulation.DebugInput
	Sync     simulation.SyncState
	Checksum uint64
}

// Marshal ...
func (f *Frame) Marshal(io protocol.IO) {
	io.Int32(&f.Step.StepMS)
	io.Int64(&f.Step.TotalSimulationTime)
	io.Int32(&f.Step.Frame)
	f.Cmd.NetSerialize(io)
	io.Bool(&f.Debug.ForceMispredict)
	f.Sync.NetSerialize(io)
	io.Uint64(&f.Checksum)
}

// Recording is a decoded recording.
type Recording struct {
	Header
	Frames []Frame
}

func marshalConfig(io protocol.IO, c *simulation.Config) {
	for _, f := range []*float32{
		&c.MovementSpeed, &c.Gravity, &c.StopSpeed, &c.Acceleration, &c.AirAcceleration,
		&c.FlightAcceleration, &c.Friction, &c.FlightFriction, &c.JumpSpeed,
		&c.MinFrictionSpeed, &c.MinWalkSpeed, &c.GroundProbeDistance,
	} {
		io.Float32(f)
	}
	style := uint8(c.FrictionStyle)
	io.Uint8(&style)
	c.FrictionStyle = simulation.FrictionStyle(style)
	io.Bool(&c.Flight)
}

func marshalBBox(io protocol.IO, bb *cube.BBox) {
	minV, maxV := bb.Min(), bb.Max()
	io.Vec3(&minV)
	io.Vec3(&maxV)
	*bb = cube.Box(minV[0], minV[1], minV[2], maxV[0], maxV[1], maxV[2])
}

// Decode reads a recording written by a Recorder.
func Decode(r io.Reader) (rec *Recording, err error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, oerror.New("unable to open recording: %v", err)
	}
	defer dec.Close()

	// The protocol reader expects every read to be complete, which only an in-memory buffer guarantees.
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, oerror.New("unable to decompress recording: %v", err)
	}
	buf := bytes.NewBuffer(data)
	pr := protocol.NewReader(buf, 0, false)

	// The protocol reader panics on malformed data.
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, oerror.New("malformed recording: %v", r)
		}
	}()

	rec = &Recording{}
	rec.Header.Marshal(pr)
	for buf.Len() > 0 {
		var f Frame
		f.Marshal(pr)
		rec.Frames = append(rec.Frames, f)
	}
	return rec, nil
}

// Duration returns the simulation time covered by the recording, in milliseconds.
func (r *Recording) Duration() int64 {
	if len(r.Frames) == 0 {
		return 0
	}
	last := r.Frames[len(r.Frames)-1]
	return last.Step.TotalSimulationTime + int64(last.Step.StepMS)
}

// FinalLocation returns the location recorded for the last frame, or the spawn location without frames.
func (r *Recording) FinalLocation() mgl32.Vec3 {
	if len(r.Frames) == 0 {
		return r.Spawn.Location
	}
	return r.Frames[len(r.Frames)-1].Sync.Location
}
