package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

const coneSegments = 12

var stateColors = map[component.GuardState]color.RGBA{
	component.GuardIdle:       colornames.Lightsteelblue,
	component.GuardSuspicious: colornames.Gold,
	component.GuardAlerted:    colornames.Crimson,
}

var indicatorColors = map[string]color.RGBA{
	"yellow": colornames.Yellow,
	"red":    colornames.Red,
}

func drawWorld(screen *ebiten.Image, w *ecs.World, debug bool) {
	screen.Fill(colornames.Darkslategray)

	ecs.ForEach2(w, component.WallTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.WallTag, pb *component.PhysicsBody) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		x, y := t.X-pb.Width/2, t.Y-pb.Height/2
		vector.FillRect(screen, float32(x), float32(y), float32(pb.Width), float32(pb.Height), colornames.Dimgray, false)
	})

	ecs.ForEach2(w, component.PatrolPointTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.PatrolPointTag, t *component.Transform) {
		vector.StrokeCircle(screen, float32(t.X), float32(t.Y), 6, 1, colornames.Lightgrey, true)
	})

	ecs.ForEach2(w, component.IntruderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Intruder, t *component.Transform) {
		r := bodyRadius(w, e)
		vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(r), colornames.Mediumseagreen, true)
	})

	ecs.ForEach2(w, component.GuardComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, g *component.Guard, t *component.Transform) {
		if debug {
			drawSensing(screen, w, e, t, g.State)
			drawPath(screen, w, e, t)
		}
		drawGuard(screen, w, e, g, t)
	})

	if debug {
		if dd, ok := ecs.Singleton(w, component.DebugDrawComponent.Kind()); ok {
			for _, s := range dd.Spheres {
				vector.StrokeCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), 2, s.Color, true)
			}
		}
	}
}

func drawGuard(screen *ebiten.Image, w *ecs.World, e ecs.Entity, g *component.Guard, t *component.Transform) {
	r := bodyRadius(w, e)
	vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(r), stateColors[g.State], true)

	fx, fy := t.X+math.Cos(t.Rotation)*r*1.6, t.Y+math.Sin(t.Rotation)*r*1.6
	vector.StrokeLine(screen, float32(t.X), float32(t.Y), float32(fx), float32(fy), 3, colornames.White, true)

	if ind, ok := ecs.Get(w, e, component.IndicatorComponent.Kind()); ok && ind.Text != "" {
		clr, ok := indicatorColors[ind.Color]
		if !ok {
			clr = colornames.White
		}
		vector.FillCircle(screen, float32(t.X), float32(t.Y-r-12), 8, clr, true)
		ebitenutil.DebugPrintAt(screen, ind.Text, int(t.X)-3, int(t.Y-r)-20)
	}
}

func drawSensing(screen *ebiten.Image, w *ecs.World, e ecs.Entity, t *component.Transform, state component.GuardState) {
	s, ok := ecs.Get(w, e, component.PawnSensingComponent.Kind())
	if !ok {
		return
	}
	c := stateColors[state]
	clr := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 90}

	half := common.DegToRad(s.PeripheralVisionAngle)
	prevX, prevY := t.X, t.Y
	for i := 0; i <= coneSegments; i++ {
		a := t.Rotation - half + 2*half*float64(i)/coneSegments
		x, y := t.X+math.Cos(a)*s.SightRadius, t.Y+math.Sin(a)*s.SightRadius
		vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1, clr, true)
		prevX, prevY = x, y
	}
	vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(t.X), float32(t.Y), 1, clr, true)

	vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(s.HearingThreshold), 1, color.NRGBA{R: 0x80, G: 0x80, B: 0xff, A: 60}, true)
}

func drawPath(screen *ebiten.Image, w *ecs.World, e ecs.Entity, t *component.Transform) {
	nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
	if !ok || !nav.Active {
		return
	}
	px, py := t.X, t.Y
	for i := nav.PathIndex; i < len(nav.Path); i++ {
		n := nav.Path[i]
		vector.StrokeLine(screen, float32(px), float32(py), float32(n.X), float32(n.Y), 1, colornames.Lightgrey, false)
		px, py = n.X, n.Y
	}
}

func bodyRadius(w *ecs.World, e ecs.Entity) float64 {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Radius > 0 {
		return pb.Radius
	}
	return 12
}
