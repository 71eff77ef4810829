//go:build rp2040

// Package pio drives a single stepper axis through the RP2040's
// programmable I/O block instead of bit-banging machine.Pin from the main
// loop. The PIO program only ever receives one-step-at-a-time commands
// (Core.StepDir decides direction per raw step, so run-ahead queuing of
// more than one pulse is never used here), trading the jitter of a
// software-timed pulse for a fixed ~64ns one generated entirely in
// silicon.
package pio

import (
	"machine"

	"penplotter/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildStepperProgram assembles the step-pulse PIO program: pull a 32-bit
// command word (bits 0-15 pulse count, bits 16-23 delay cycles, bit 24
// direction), then emit count+1 step pulses with the requested inter-pulse
// spacing ("jmp x--" loops once more than the value loaded into x).
func buildStepperProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const stepperPIOOrigin = 0

// StepperBackend drives one axis's step/dir pin pair through a dedicated
// PIO state machine. It satisfies core.StepperBackend.
type StepperBackend struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	stepPin   machine.Pin
	dirPin    machine.Pin
	direction bool
}

// New creates a PIO stepper backend on the given PIO block (0 or 1) and
// state machine (0-3). Each axis needs its own state machine.
func New(pioNum, smNum uint8) *StepperBackend {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &StepperBackend{pio: pioHW, sm: pioHW.StateMachine(smNum)}
}

// Init loads the step-pulse program, claims the state machine, and
// configures the step/dir pins for PIO control.
func (b *StepperBackend) Init(stepPin, dirPin uint8, invertStep, invertDir bool) error {
	b.stepPin = machine.Pin(stepPin)
	b.dirPin = machine.Pin(dirPin)

	b.sm.TryClaim()

	program := buildStepperProgram()
	offset, err := b.pio.AddProgram(program, stepperPIOOrigin)
	if err != nil {
		return err
	}

	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	b.dirPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(b.stepPin, 1)
	cfg.SetOutPins(b.dirPin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	b.sm.Init(offset, cfg)
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPindirsConsecutive(b.dirPin, 1, true)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetPinsConsecutive(b.dirPin, 1, false)
	b.sm.SetEnabled(true)

	return nil
}

// Step queues one pulse at the current direction. Core.Delay already
// paces calls to Step at the right step rate, so the command word always
// asks for a single pulse with minimal in-PIO spacing.
func (b *StepperBackend) Step() {
	cmd := uint32(0) | (1 << 16) // count=0 (one pulse), delay=1 cycle
	if b.direction {
		cmd |= 1 << 24
	}
	for b.sm.IsTxFIFOFull() {
	}
	b.sm.TxPut(cmd)
}

// SetDirection sets the direction bit applied to the next Step.
func (b *StepperBackend) SetDirection(dir bool) { b.direction = dir }

// Stop disables and restarts the state machine, clearing its FIFOs so no
// stale command outlives a halt.
func (b *StepperBackend) Stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.SetEnabled(true)
}

func (b *StepperBackend) GetName() string { return "pio" }

// Info reports this backend's timing characteristics for diagnostics.
func (b *StepperBackend) Info() core.StepperBackendInfo {
	return core.StepperBackendInfo{
		Name:          b.GetName(),
		MaxStepRate:   500000,
		MinPulseNs:    64,
		TypicalJitter: 10,
		CPUOverhead:   1,
	}
}
