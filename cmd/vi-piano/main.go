// vi-piano is a terminal piano with a timed note-matching minigame
//
// Play locally:
//
//	vi-piano [--record take.mid] [--http :8080]
//
// Serve over SSH:
//
//	vi-piano serve --addr :2222
//	ssh -t -p 2222 localhost
package main

import (
	"github.com/lixenwraith/vi-piano/core"
)

func main() {
	// Panic recovery restores the terminal before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	Execute()
}
