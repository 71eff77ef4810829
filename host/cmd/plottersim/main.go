// Command plottersim hosts a Controller against either a real serial
// connection to plotter hardware or, with -device -, this process's own
// stdin, so a plot can be scripted without a board attached.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"penplotter/control"
	"penplotter/host/serial"
	"penplotter/kinematics"
	"penplotter/pen"
	"penplotter/targets/sim"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path, or - for stdin")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Echo every line fed to the controller")
)

func main() {
	flag.Parse()

	lines := make(chan []byte, 16)
	if *device == "-" {
		go readLines(os.Stdin, lines)
	} else {
		port, err := serial.Open(&serial.Config{Device: *device, Baud: *baud, ReadTimeout: 100})
		if err != nil {
			fmt.Fprintf(os.Stderr, "plottersim: failed to open %s: %v\n", *device, err)
			os.Exit(1)
		}
		defer port.Close()
		go readPort(port, lines)
	}

	clock := sim.NewClock()
	gpio := sim.NewGPIO()
	pwm := sim.NewPWM(1000)

	penActuator := pen.New(pwm, 0)
	if err := penActuator.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "plottersim: pen init: %v\n", err)
		os.Exit(1)
	}

	k := kinematics.New(gpio, 0, penActuator)
	stepX := sim.NewStepper("x")
	stepY := sim.NewStepper("y")

	ctrl := control.New(k, stepX, stepY, func(s string) { fmt.Println(s) })
	ctrl.Start()

	// Single-threaded cooperative loop, matching the firmware's main loop:
	// only this goroutine ever touches ctrl.
	for {
		clock.Sync()
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			if *verbose {
				fmt.Fprintf(os.Stderr, "< %s", line)
			}
			ctrl.Feed(line)
		default:
		}
		ctrl.Tick()
	}
}

func readLines(r *os.File, out chan<- []byte) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes())+1)
		copy(line, scanner.Bytes())
		line[len(line)-1] = '\n'
		out <- line
	}
}

func readPort(port serial.Port, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			line := make([]byte, n)
			copy(line, buf[:n])
			out <- line
		}
		if err != nil {
			return
		}
	}
}
