//go:build !tinygo

package main

import (
	"log/slog"

	"ledblink-go/bus"
	"ledblink-go/services/blink"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/services/blink/internal/platform"
	"ledblink-go/types"
)

// simulation is one controller driving one simulated board.
type simulation struct {
	sim  *platform.Sim
	ctrl *blink.Controller
	cfg  blink.Config
}

func newSimulation(boardName string, v core.Variant, realtime bool, conn *bus.Connection, l *slog.Logger) (*simulation, error) {
	b, err := boards.Lookup(boardName)
	if err != nil {
		return nil, err
	}
	opts := []platform.SimOption{platform.WithLogger(l.With("board", b.Name, "variant", v.String()))}
	if realtime {
		opts = append(opts, platform.WithRealtime())
	}
	s, err := platform.NewSim(b, opts...)
	if err != nil {
		return nil, err
	}
	cfg := blink.ConfigFor(b, v)
	return &simulation{
		sim:  s,
		ctrl: blink.New(cfg, s.Resources(v), blink.WithEmitter(blink.NewBusEmitter(conn))),
		cfg:  cfg,
	}, nil
}

// run starts the controller and blinks for n full cycles.
func (s *simulation) run(n int) error {
	if err := s.ctrl.Start(); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.ctrl.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulation) pins() []int { return []int{s.cfg.Blue, s.cfg.Red} }

// logToggles logs every toggle published on conn until the subscription
// closes. The returned channel is closed when it does.
func logToggles(conn *bus.Connection, l *slog.Logger) (*bus.Subscription, <-chan struct{}) {
	sub := conn.Subscribe(blink.TopicLEDs)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range sub.Channel() {
			t, ok := m.Payload.(types.LEDToggle)
			if !ok {
				continue
			}
			l.Debug("toggle", "role", string(t.Role), "pin", t.Pin, "count", t.Count, "ts_us", t.TSus)
		}
	}()
	return sub, done
}
