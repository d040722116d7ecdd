package system

import (
	"math"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// HasLineOfSight reports whether the segment between the two points crosses
// no static body. Entities in ignore never block.
func HasLineOfSight(w *ecs.World, x0, y0, x1, y1 float64, ignore ...ecs.Entity) bool {
	_, _, hit := firstStaticHit(w, x0, y0, x1, y1, ignore...)
	return !hit
}

func firstStaticHit(w *ecs.World, x0, y0, x1, y1 float64, ignore ...ecs.Entity) (float64, float64, bool) {
	if w == nil {
		return 0, 0, false
	}

	dx := x1 - x0
	dy := y1 - y0
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}

	closestT := 1.0
	hasHit := false

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, transform *component.Transform) {
		if !body.Static {
			return
		}
		for _, skip := range ignore {
			if e == skip {
				return
			}
		}

		if body.Radius > 0 && body.Width <= 0 {
			if t, ok := segmentCircleHit(x0, y0, x1, y1, transform.X, transform.Y, body.Radius); ok && t < closestT {
				closestT = t
				hasHit = true
			}
			return
		}

		minX, minY, maxX, maxY := bodyAABB(transform, body)
		if hit, t := segmentAABBHit(x0, y0, dx, dy, minX, minY, maxX, maxY); hit && t < closestT {
			closestT = t
			hasHit = true
		}
	})

	if !hasHit {
		return 0, 0, false
	}

	return x0 + dx*closestT, y0 + dy*closestT, true
}

// bodyAABB returns the box of a body centred on its transform.
func bodyAABB(transform *component.Transform, body *component.PhysicsBody) (minX, minY, maxX, maxY float64) {
	width := body.Width
	height := body.Height
	if width <= 0 && body.Radius > 0 {
		width = body.Radius * 2
		height = body.Radius * 2
	}
	if width <= 0 {
		width = 32
	}
	if height <= 0 {
		height = 32
	}

	minX = transform.X - width/2
	minY = transform.Y - height/2
	maxX = minX + width
	maxY = minY + height
	return
}

func segmentAABBHit(x0, y0, dx, dy, minX, minY, maxX, maxY float64) (bool, float64) {
	tmin := 0.0
	tmax := 1.0

	if dx != 0 {
		invD := 1.0 / dx
		t1 := (minX - x0) * invD
		t2 := (maxX - x0) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if x0 < minX || x0 > maxX {
		return false, 0
	}

	if dy != 0 {
		invD := 1.0 / dy
		t1 := (minY - y0) * invD
		t2 := (maxY - y0) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if y0 < minY || y0 > maxY {
		return false, 0
	}

	if tmax >= tmin {
		return true, tmin
	}
	return false, 0
}

// segmentCircleHit returns the segment parameter of the first intersection
// with the circle.
func segmentCircleHit(x0, y0, x1, y1, cx, cy, r float64) (float64, bool) {
	dx := x1 - x0
	dy := y1 - y0
	fx := x0 - cx
	fy := y0 - cy

	a := dx*dx + dy*dy
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r

	disc := b*b - 4*a*c
	if disc < 0 || a == 0 {
		return 0, false
	}

	sqrtDisc := math.Sqrt(disc)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	t := math.Inf(1)
	if t1 >= 0 && t1 <= 1 {
		t = t1
	}
	if t2 >= 0 && t2 <= 1 && t2 < t {
		t = t2
	}
	if math.IsInf(t, 1) {
		return 0, false
	}
	return t, true
}
