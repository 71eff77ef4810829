// Package config loads a plotter's hardware and motion parameters from a
// small JSON document, applying the same defaults the firmware would use
// if it were hard-coded.
package config

import (
	"encoding/json"
	"fmt"

	"penplotter/geom"
	"penplotter/pen"
)

// MachineConfig describes one physical plotter: which GPIO/PWM pins drive
// it, the size of its work envelope, and the pen actuator's timing.
type MachineConfig struct {
	StepPinX uint8 `json:"step_pin_x"`
	DirPinX  uint8 `json:"dir_pin_x"`
	StepPinY uint8 `json:"step_pin_y"`
	DirPinY  uint8 `json:"dir_pin_y"`

	DriverEnablePin uint32 `json:"driver_enable_pin"`
	PenPWMPin       uint32 `json:"pen_pwm_pin"`

	LimitX int64 `json:"limit_x"`
	LimitY int64 `json:"limit_y"`

	DefaultSpeed int `json:"default_speed"`
	MoveSpeed    int `json:"move_speed"`

	PenUpAngle      int    `json:"pen_up_angle"`
	PenDownAngle    int    `json:"pen_down_angle"`
	PenEaseMillis   uint32 `json:"pen_ease_millis"`
	PenSettleMillis uint32 `json:"pen_settle_millis"`
}

// Reference-board pin wiring, used when the config document leaves a pin
// unassigned. Pin 0 is therefore not addressable from a config document;
// the reference board does not route it.
const (
	defaultStepPinX = 2
	defaultDirPinX  = 3
	defaultStepPinY = 4
	defaultDirPinY  = 5

	defaultDriverEnablePin = 6
	defaultPenPWMPin       = 7
)

// applyDefaults fills in any field left at its zero value with the
// firmware's built-in defaults, so a minimal or empty config document is
// still usable.
func (c *MachineConfig) applyDefaults() {
	if c.StepPinX == 0 {
		c.StepPinX = defaultStepPinX
	}
	if c.DirPinX == 0 {
		c.DirPinX = defaultDirPinX
	}
	if c.StepPinY == 0 {
		c.StepPinY = defaultStepPinY
	}
	if c.DirPinY == 0 {
		c.DirPinY = defaultDirPinY
	}
	if c.DriverEnablePin == 0 {
		c.DriverEnablePin = defaultDriverEnablePin
	}
	if c.PenPWMPin == 0 {
		c.PenPWMPin = defaultPenPWMPin
	}
	if c.LimitX == 0 {
		c.LimitX = geom.DefaultEnvelope.LimitX
	}
	if c.LimitY == 0 {
		c.LimitY = geom.DefaultEnvelope.LimitY
	}
	if c.DefaultSpeed == 0 {
		c.DefaultSpeed = 2400
	}
	if c.MoveSpeed == 0 {
		c.MoveSpeed = 3200
	}
	if c.PenUpAngle == 0 {
		c.PenUpAngle = pen.UpAngle
	}
	if c.PenDownAngle == 0 {
		c.PenDownAngle = pen.DownAngle
	}
	if c.PenEaseMillis == 0 {
		c.PenEaseMillis = pen.EaseMillis
	}
	if c.PenSettleMillis == 0 {
		c.PenSettleMillis = pen.SettleMillis
	}
}

// Envelope returns the configured work envelope as a geom.Envelope.
func (c *MachineConfig) Envelope() geom.Envelope {
	return geom.Envelope{LimitX: c.LimitX, LimitY: c.LimitY}
}

// Load parses a JSON machine configuration document, applying defaults for
// anything it omits. An empty document (data == "{}" or "") is valid and
// yields the firmware's built-in defaults.
func Load(data []byte) (*MachineConfig, error) {
	c := &MachineConfig{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	c.applyDefaults()
	return c, nil
}
