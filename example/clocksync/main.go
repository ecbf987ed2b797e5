package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/mesa-game/mesa/netclock"
	"github.com/mesa-game/mesa/settings"
	"github.com/sirupsen/logrus"
)

// The following program runs a network clock server, or a client that synchronises with one and prints the
// estimated server time.
func main() {
	if len(os.Args) < 2 || (os.Args[1] != "server" && os.Args[1] != "client") {
		fmt.Println("Usage: ./bin <server|client> [settings.toml]")
		return
	}

	s := settings.DefaultSettings()
	if len(os.Args) > 2 {
		loaded, err := settings.Load(os.Args[2])
		if err != nil {
			panic(err)
		}
		s = loaded
	}
	log, err := s.Logger()
	if err != nil {
		panic(err)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("unable to initialise sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if os.Args[1] == "server" {
		runServer(ctx, s, log)
		return
	}
	runClient(ctx, s, log)
}

func runServer(ctx context.Context, s settings.Settings, log *logrus.Logger) {
	srv, err := netclock.Listen(s.NetClock.Address, netclock.NewResponder(nil, log), log)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Infof("clock server listening on %v", srv.Addr())
	if err := srv.Serve(); err != nil {
		log.Error(err)
	}
}

func runClient(ctx context.Context, s settings.Settings, log *logrus.Logger) {
	dbg, err := s.Debugger(log)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := netclock.Dial(ctx, s.NetClock.Address)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	clock := netclock.NewClock(s.ClockOptions(), log, dbg)
	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				log.WithFields(logrus.Fields{
					"rtt":    clock.RTT(),
					"offset": clock.Offset(),
				}).Infof("server time %v", clock.ServerTime())
			}
		}
	}()

	if err := clock.Run(ctx, conn); err != nil && ctx.Err() == nil {
		log.Error(err)
	}
}
