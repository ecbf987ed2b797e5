package netclock

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mesa-game/mesa/oerror"
	"github.com/sandertv/go-raknet"
	"github.com/sirupsen/logrus"
)

// PacketConn is a connection that preserves packet boundaries. *raknet.Conn implements it.
type PacketConn interface {
	ReadPacket() ([]byte, error)
	Write(b []byte) (int, error)
}

// Server accepts RakNet connections and answers the time requests sent over them.
type Server struct {
	listener  *raknet.Listener
	responder *Responder
	log       *logrus.Logger

	wg sync.WaitGroup
}

// Listen starts listening for clock connections on addr.
func Listen(addr string, responder *Responder, log *logrus.Logger) (*Server, error) {
	l, err := raknet.Listen(addr)
	if err != nil {
		return nil, oerror.New("unable to listen on %s: %v", addr, err)
	}
	return &Server{listener: l, responder: responder, log: log}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until the server is closed. Each connection is served on its own goroutine.
func (s *Server) Serve() error {
	defer s.wg.Wait()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return oerror.New("unable to accept connection: %v", err)
		}

		pc, ok := conn.(PacketConn)
		if !ok {
			s.log.Errorf("netclock: connection from %v does not preserve packets", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			defer recoverPanic(s.log, "responder", pc)

			s.log.Debugf("netclock: %v connected", conn.RemoteAddr())
			if err := s.responder.Serve(pc); err != nil {
				s.log.Debugf("netclock: %v disconnected: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// Close stops accepting connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Dial connects to a clock server at addr.
func Dial(ctx context.Context, addr string) (*raknet.Conn, error) {
	conn, err := raknet.DialContext(ctx, addr)
	if err != nil {
		return nil, oerror.New("unable to dial %s: %v", addr, err)
	}
	return conn, nil
}

// recoverPanic reports a panic on a connection goroutine to sentry. It must be deferred directly.
func recoverPanic(log *logrus.Logger, component string, conn any) {
	err := recover()
	if err == nil {
		return
	}

	log.Errorf("netclock %s panic: %v", component, err)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		if c, ok := conn.(interface{ RemoteAddr() net.Addr }); ok {
			scope.SetTag("remote_addr", c.RemoteAddr().String())
		}
	})
	hub.Recover(oerror.New("%v", err))
	hub.Flush(time.Second * 5)
}
