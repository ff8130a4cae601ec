package main

import (
	"time"

	"ledblink-go/bus"
	"ledblink-go/services/blink"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	b := bus.NewBus(4)
	conn := b.NewConnection("main")

	// Only returns if bring-up failed; the LEDs are already off.
	err := blink.Run(conn)
	println("blink halted:", err.Error())
	for {
		time.Sleep(time.Hour)
	}
}
