package netclock

import (
	"time"

	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/wire"
	"github.com/sirupsen/logrus"
)

// Responder answers time requests with the time of the server.
type Responder struct {
	now func() time.Duration
	log *logrus.Logger
}

// NewResponder creates a Responder reading the server time from now. If now is nil, the time elapsed since
// the Responder was created is used.
func NewResponder(now func() time.Duration, log *logrus.Logger) *Responder {
	if now == nil {
		now = MonotonicNow()
	}
	return &Responder{now: now, log: log}
}

// Respond ...
func (r *Responder) Respond(req *wire.TimeRequest) *wire.TimeResponse {
	return &wire.TimeResponse{ClientTimestamp: req.ClientTimestamp, ServerTimestamp: int64(r.now())}
}

// Serve answers the time requests read from conn until reading from it fails.
func (r *Responder) Serve(conn PacketConn) error {
	for {
		b, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		pk, err := wire.Decode(b)
		if err != nil {
			r.log.Warnf("netclock: dropping packet: %v", err)
			continue
		}
		req, ok := pk.(*wire.TimeRequest)
		if !ok {
			continue
		}
		if _, err := conn.Write(wire.Encode(r.Respond(req))); err != nil {
			return oerror.New("unable to send time response: %v", err)
		}
	}
}
