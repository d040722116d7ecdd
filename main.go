package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/levels"
	"github.com/milk9111/guardpatrol/logger"
)

func main() {
	debug := flag.Bool("debug", false, "draw sensing cones, paths and debug spheres")
	levelName := flag.String("level", levels.DefaultLevel, "level file (embedded name or path on disk)")
	flag.Parse()

	logger.Init()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("guardpatrol")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(*levelName, *debug)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to start viewer")
	}

	if err := ebiten.RunGame(game); err != nil {
		logger.Log.WithError(err).Fatal("viewer stopped")
	}
}
