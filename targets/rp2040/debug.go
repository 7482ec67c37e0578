//go:build rp2040

package main

import "machine"

// debugUART carries core.DebugPrintln output so it never mixes with the
// framed USB stream.
var debugUART *machine.UART

// InitDebugUART sets up UART0 on GP0 (TX) and GP1 (RX) at 115200 baud
func InitDebugUART() {
	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		return
	}
	debugUART = uart
}

func DebugPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
