// Command gbcore-inspect loads a ROM, runs the CPU freely, and serves
// live register/memory snapshots over the inspector's websocket so a
// browser-side client can watch execution without its own debugger.
// It is not a front-end: no display, audio or input is wired up here.
package main

import (
	"flag"
	"log"

	"github.com/sharplr/gbcore/internal/cartridge"
	"github.com/sharplr/gbcore/internal/cpu"
	"github.com/sharplr/gbcore/internal/inspector"
	"github.com/sharplr/gbcore/internal/mmu"
	"github.com/sharplr/gbcore/internal/romloader"
)

func main() {
	romPath := flag.String("rom", "", "ROM file to load (.gb/.gbc, or .7z containing one)")
	addr := flag.String("addr", "localhost:8080", "address to serve the inspector websocket on")
	broadcastEvery := flag.Int("broadcast-every", 10000, "CPU steps between inspector broadcasts")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("gbcore-inspect: -rom is required")
	}

	rom, err := romloader.Load(*romPath)
	if err != nil {
		log.Fatalf("gbcore-inspect: %v", err)
	}

	cart, err := cartridge.Load(rom)
	if err != nil {
		log.Fatalf("gbcore-inspect: %v", err)
	}
	log.Printf("gbcore-inspect: loaded %s (digest %016x)", cart.Header(), cart.Digest())

	m := mmu.New(cart)
	c := cpu.New(m)
	srv := inspector.New(c, m)

	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("gbcore-inspect: inspector server: %v", err)
		}
	}()

	steps := 0
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Fatalf("gbcore-inspect: %v", r)
				}
			}()
			c.Step()
		}()

		steps++
		if steps%*broadcastEvery == 0 {
			srv.Broadcast()
		}
	}
}
