//go:build rp2040

// Firmware for the RP2040 drill controller board.
package main

import (
	"context"
	"machine"
	"time"

	"soildrill/core"
	"soildrill/drill"
	"soildrill/protocol"
	"soildrill/telemetry"
)

const firmwareVersion = "soildrill-rp2040"

var (
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	link         *telemetry.Link

	// USB connection state
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
	msgErrors                uint32
)

func main() {
	// clear any watchdog state left from before the reset
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	// USB CDC
	machine.Serial.Configure(machine.UARTConfig{})
	InitDebugUART()
	InitClock()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(debugUART != nil)

	cfg := drill.DefaultConfig()
	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()
	link = telemetry.NewLink(outputBuffer, writeUSB, firmwareVersion)
	link.Registry().AddConstant("MCU", "rp2040")
	link.Publish(cfg)

	// the controller only waits through core.SystemClock, so the link is
	// serviced from the idle hook
	core.SetIdleHook(serviceLink)

	b, err := newBoard()
	if err != nil {
		halt("board setup failed: " + err.Error())
	}
	ctrl, err := drill.NewController(cfg, b.peripherals(), link)
	if err != nil {
		halt("controller setup failed: " + err.Error())
	}
	link.SetStatusSource(ctrl)

	core.DebugPrintln("[BOARD] " + firmwareVersion + " ready")
	ctrl.Run(context.Background())
}

// halt keeps the telemetry link alive after a fatal setup error
func halt(msg string) {
	for {
		core.DebugPrintln("[BOARD] " + msg)
		deadline := GetHardwareTime() + 1000000
		for core.TimerBefore(GetHardwareTime(), deadline) {
			serviceLink()
		}
	}
}

// serviceLink moves USB input into the transport and pushes pending
// output. A panic drops the buffers rather than the firmware.
func serviceLink() {
	defer func() {
		if recover() != nil {
			msgErrors++
			inputBuffer.Reset()
			outputBuffer.Reset()
		}
	}()

	readUSB()
	if inputBuffer.Available() > 0 {
		in := protocol.NewSliceInputBuffer(inputBuffer.Data())
		before := in.Available()
		link.Receive(in)
		if consumed := before - in.Available(); consumed > 0 {
			inputBuffer.Pop(consumed)
		}
	}
	if len(outputBuffer.Result()) > 0 {
		writeUSB()
	}
	time.Sleep(10 * time.Microsecond)
}

func readUSB() {
	for machine.Serial.Buffered() > 0 {
		data, err := machine.Serial.ReadByte()
		if err != nil {
			msgErrors++
			return
		}
		if usbWasDisconnected {
			// fresh connection: drop stale state
			usbWasDisconnected = false
			consecutiveWriteFailures = 0
			inputBuffer.Reset()
			outputBuffer.Reset()
			link.Reset()
		}
		if inputBuffer.Write([]byte{data}) == 0 {
			msgErrors++
			return
		}
	}
}

// writeUSB sends the output buffer. Repeated failures mark the host gone
// and discard what is queued.
func writeUSB() {
	result := outputBuffer.Result()
	written := 0
	for written < len(result) {
		n, err := machine.Serial.Write(result[written:])
		if err != nil || n == 0 {
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
