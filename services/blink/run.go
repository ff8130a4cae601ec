package blink

import (
	"ledblink-go/bus"
	"ledblink-go/services/blink/internal/platform"
)

// Run drives the build-selected board with the build-selected variant,
// publishing state and toggles on conn (which may be nil). It only returns
// once the controller halts.
func Run(conn *bus.Connection) error {
	res, b, err := platform.GetResources(BuildVariant)
	if err != nil {
		return err
	}
	c := New(ConfigFor(b, BuildVariant), res, WithEmitter(NewBusEmitter(conn)))
	return c.Run()
}
