package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/ecs/system"
	"github.com/milk9111/guardpatrol/logger"
)

const (
	stickDeadzone = 0.2
	playerSpeed   = 140.0
	playerNoise   = 1.0
)

// Input drives player intruders. The first key press takes an intruder off
// its authored route for good.
type Input struct{}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Apply(w *ecs.World) {
	moveX, moveY := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		moveY -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		moveY += 1
	}
	noise := inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		sx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		sy := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(sx, sy) > stickDeadzone {
			moveX, moveY = sx, sy
		}
		noise = noise || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	if l := math.Hypot(moveX, moveY); l > 1 {
		moveX, moveY = moveX/l, moveY/l
	}

	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.IntruderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, in *component.Intruder, t *component.Transform) {
		if len(in.Route) > 0 {
			if moveX == 0 && moveY == 0 && !noise {
				return
			}
			in.Route = nil
			in.NoiseInterval = 0
		}
		system.SetVelocity(w, e, moveX*playerSpeed, moveY*playerSpeed)
		if moveX != 0 || moveY != 0 {
			t.Rotation = math.Atan2(moveY, moveX)
		}
		if noise {
			if _, err := system.MakeNoise(w, e, t.X, t.Y, playerNoise); err != nil {
				logger.Log.WithError(err).Warn("failed to make noise")
			}
		}
	})
}
