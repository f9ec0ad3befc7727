//go:build tinygo

// irpad is keypad firmware: it decodes the remote on rxPin and writes each
// key's byte to the serial console.
package main

import (
	"context"
	"machine"
	"os"

	"github.com/sparques/irkeys"
	"github.com/sparques/irkeys/nec"
)

// gpio pin connected to output of demodulating IR receiver
const rxPin = machine.GPIO15

func main() {
	dec, err := nec.NewDecoder(nec.NEC16Timing())
	if err != nil {
		panic(err)
	}

	src := irkeys.NewPinSource(rxPin)
	keys := make(chan irkeys.Key, 8)
	loop := irkeys.NewLoop(src, dec, keys)

	go func() {
		for k := range keys {
			os.Stdout.Write([]byte{k.Byte()})
		}
	}()

	src.Start()
	loop.Run(context.Background())
}
