//go:build rp2040

package main

import (
	"machine"
	"time"

	"penplotter/config"
	"penplotter/control"
	"penplotter/core"
	"penplotter/kinematics"
	"penplotter/pen"
	"penplotter/targets/pio"
)

var readBuf [256]byte

func main() {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		blinkForever()
	}

	machine.Serial.Configure(machine.UARTConfig{})

	// Debug output shares the serial link with the command protocol; it
	// stays quiet unless enabled, but the timing-ring dump must have a
	// writer to land on.
	core.SetDebugWriter(writeLine)

	InitClock()
	core.TimerInit()

	cfg, err := config.Load(nil)
	if err != nil {
		blinkForever()
	}

	gpio := NewRP2040GPIODriver()
	if err := gpio.ConfigureOutput(core.GPIOPin(cfg.DriverEnablePin)); err != nil {
		blinkForever()
	}

	pwmDriver := NewRP2040PWMDriver()

	penActuator := pen.New(pwmDriver, core.PWMPin(cfg.PenPWMPin))
	penActuator.UpAngle = cfg.PenUpAngle
	penActuator.DownAngle = cfg.PenDownAngle
	penActuator.EaseMillis = cfg.PenEaseMillis
	penActuator.SettleMillis = cfg.PenSettleMillis
	if err := penActuator.Init(); err != nil {
		blinkForever()
	}

	k := kinematics.New(gpio, core.GPIOPin(cfg.DriverEnablePin), penActuator)
	k.Envelope = cfg.Envelope()

	// One PIO block per axis, so each can load the step-pulse program at
	// origin 0 (its jumps are absolute) and the pulse itself is generated
	// in silicon rather than bit-banged from this loop.
	stepX := pio.New(0, 0)
	stepY := pio.New(1, 0)
	if err := stepX.Init(cfg.StepPinX, cfg.DirPinX, false, false); err != nil {
		blinkForever()
	}
	if err := stepY.Init(cfg.StepPinY, cfg.DirPinY, false, false); err != nil {
		blinkForever()
	}

	ctrl := control.New(k, stepX, stepY, writeLine)
	ctrl.DrawSpeed = cfg.DefaultSpeed
	ctrl.MoveSpeed = cfg.MoveSpeed
	ctrl.Start()

	for {
		UpdateSystemTime()

		if n, _ := machine.Serial.Read(readBuf[:]); n > 0 {
			ctrl.Feed(readBuf[:n])
		}

		ctrl.Tick()
	}
}

func writeLine(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\n"))
}

// blinkForever signals an unrecoverable boot failure on the onboard LED;
// this firmware has no host it can report an error to at this stage.
func blinkForever() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
