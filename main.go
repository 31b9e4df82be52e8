package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	g := newGame()
	if *recordDefaultPGO {
		stop, err := startDefaultPGORecording("default.pgo")
		if err != nil {
			log.Fatalf("starting PGO recording: %v", err)
		}
		defer stop()
		time.AfterFunc(pgoRecordDuration, stop)
		g.enableAutoWalk(pgoRecordDuration)
	}

	ebiten.SetWindowSize(w*windowScale, h*windowScale)
	ebiten.SetWindowTitle("Echolocation")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
