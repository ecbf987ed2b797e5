package main

import (
	"fmt"
	"os"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/component"
	"github.com/mesa-game/mesa/entity"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/session"
	"github.com/mesa-game/mesa/settings"
	"github.com/mesa-game/mesa/simulation"
	"github.com/sirupsen/logrus"
)

// The following program records a scripted run of a character walking around a walled room, or verifies that
// recordings replay to the states they recorded.
func main() {
	if len(os.Args) < 3 || (os.Args[1] != "record" && os.Args[1] != "verify") {
		fmt.Println("Usage: ./bin record <file> | ./bin verify <file>...")
		return
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}

	s := settings.DefaultSettings()
	if path := os.Getenv("MESA_SETTINGS"); path != "" {
		loaded, err := settings.Load(path)
		if err != nil {
			log.Fatal(err)
		}
		s = loaded
	}
	opts, err := s.ComponentOptions()
	if err != nil {
		log.Fatal(err)
	}

	if os.Args[1] == "record" {
		if err := record(os.Args[2], opts, log); err != nil {
			log.Fatal(err)
		}
		return
	}

	recs := make([]*session.Recording, 0, len(os.Args)-2)
	for _, path := range os.Args[2:] {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		rec, err := session.Decode(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		recs = append(recs, rec)
	}
	if err := session.VerifyAll(recs, opts, log); err != nil {
		log.Fatal(err)
	}
}

func record(path string, opts component.Options, log *logrus.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := session.Header{
		Entity: "pawn",
		Shape:  entity.DefaultShape,
		Config: opts.Simulation,
		Boxes: []cube.BBox{
			cube.Box(-2000, -2000, -100, 2000, 2000, 0),
			cube.Box(-2000, 1000, 0, 2000, 1100, 400),
			cube.Box(1000, -2000, 0, 1100, 2000, 400),
		},
		Spawn: simulation.SyncState{Location: mgl32.Vec3{0, 0, 88.1}, Rotation: game.Rotator{Yaw: 45}},
	}
	rec, err := session.NewRecorder(f, header)
	if err != nil {
		return err
	}

	final, err := session.Simulate(header, 600, 16, func(frame int32, input *component.InputProducer, _ *simulation.DebugInput) {
		input.Move(0, 1)
		if frame%120 < 20 {
			input.Look(1, 0)
		}
		if frame%90 == 0 {
			input.Jump()
		} else {
			input.StopJump()
		}
	}, rec, opts, nil)
	if err != nil {
		return err
	}
	if err := rec.Close(); err != nil {
		return err
	}
	log.Infof("recorded %d frames to %s, final state %v", rec.Frames(), path, &final)
	return nil
}
