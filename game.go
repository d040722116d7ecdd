package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/system"
	"github.com/milk9111/guardpatrol/logger"
	"github.com/milk9111/guardpatrol/sim"
)

// Game is the debug viewer: it steps the simulation once per ebiten tick,
// lets the player drive the intruder and draws the world top-down.
type Game struct {
	levelName string
	debug     bool
	paused    bool

	sim     *sim.Simulation
	input   *Input
	pauseUI *ebitenui.UI

	lastChange string
}

func NewGame(levelName string, debug bool) (*Game, error) {
	g := &Game{levelName: levelName, debug: debug, input: NewInput()}
	if err := g.restart(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) restart() error {
	s, err := sim.Load(g.levelName)
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	s.Notifier.Subscribe(func(_ *ecs.World, ev system.GuardStateChanged) {
		g.lastChange = fmt.Sprintf("%s: %s -> %s", ev.Name, ev.From, ev.To)
	})
	g.sim = s
	g.lastChange = ""
	g.paused = false
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.input.Apply(g.sim.World)
	g.sim.Step()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.sim.World, g.debug)

	status := "running"
	if g.sim.MissionComplete() {
		status = "spotted! (Esc for menu)"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"tick %d  fps %.0f  %s\nWASD move, Space noise, F1 debug, Esc pause\n%s",
		g.sim.Tick(), ebiten.ActualFPS(), status, g.lastChange,
	))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) restartFromMenu() {
	if err := g.restart(); err != nil {
		logger.Log.WithError(err).Error("restart failed")
	}
}
