package blink

import (
	"ledblink-go/bus"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/types"
)

var (
	TopicState = bus.T("blink", "state")
	TopicLEDs  = bus.T("blink", "led", bus.SingleWild, "value")
)

// TopicLED is where role's toggles are published.
func TopicLED(role types.LEDRole) bus.Topic {
	return bus.T("blink", "led", string(role), "value")
}

// busEmitter publishes controller events as retained messages. Publish never
// blocks: full subscriber queues drop their oldest message.
type busEmitter struct {
	conn *bus.Connection
}

func NewBusEmitter(conn *bus.Connection) core.EventEmitter {
	if conn == nil {
		return core.NopEmitter{}
	}
	return busEmitter{conn: conn}
}

func (e busEmitter) Emit(ev core.Event) bool {
	switch ev.Kind {
	case core.EventState:
		e.conn.Publish(e.conn.NewMessage(TopicState, ev.State, true))
	case core.EventToggle:
		e.conn.Publish(e.conn.NewMessage(TopicLED(ev.Toggle.Role), ev.Toggle, true))
	default:
		return false
	}
	return true
}
