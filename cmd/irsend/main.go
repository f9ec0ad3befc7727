//go:build tinygo

// irsend is a bench transmitter: it presses every key of the reference
// remote in turn, holding each for a few repeat periods, so a receiver can
// be tested without the remote.
package main

import (
	"machine"
	"time"

	"github.com/sparques/irkeys"
	"github.com/sparques/irkeys/nec"
)

const txPin = machine.GPIO16

func main() {
	tx := irkeys.NewTxDevice(txPin)
	timing := nec.NEC16Timing()
	repeat := nec.Repeat{Timing: timing}
	keymap := irkeys.DefaultKeymap()

	for {
		for _, k := range irkeys.Keys {
			code, _ := keymap.Code(k)
			tx.Press(nec.Frame{Timing: timing, Cmd: code}, repeat, 3)
			time.Sleep(time.Second)
		}
	}
}
