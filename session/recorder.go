package session

import (
	"bufio"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/simulation"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Recorder writes the ticks of a run into a zstd compressed recording. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	enc    *zstd.Encoder
	buf    *bufio.Writer
	w      *protocol.Writer
	frames int
	closed bool
}

// NewRecorder starts a recording on w, beginning with header. The version of header is always set to
// CurrentRecordingVer.
func NewRecorder(w io.Writer, header Header) (*Recorder, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, oerror.New("unable to start recording: %v", err)
	}

	buf := bufio.NewWriter(enc)
	r := &Recorder{enc: enc, buf: buf, w: protocol.NewWriter(buf, 0)}

	header.Version = CurrentRecordingVer
	header.Marshal(r.w)
	return r, nil
}

// Record adds a tick that produced sync from cmd.
func (r *Recorder) Record(step simulation.TimeStep, cmd simulation.InputCmd, dbg simulation.DebugInput, sync simulation.SyncState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return oerror.New("recording already closed")
	}
	f := Frame{Step: step, Cmd: cmd, Debug: dbg, Sync: sync, Checksum: sync.Checksum()}
	f.Marshal(r.w)
	r.frames++
	return nil
}

// Frames returns the number of recorded ticks.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes the recording. It does not close the underlying writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.buf.Flush(); err != nil {
		return oerror.New("unable to flush recording: %v", err)
	}
	if err := r.enc.Close(); err != nil {
		return oerror.New("unable to close recording: %v", err)
	}
	return nil
}
