package system

import (
	"container/heap"
	"math"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

const (
	defaultPathGridSize     = 32.0
	defaultPathRepathFrames = 30
)

type gridPos struct {
	x int
	y int
}

// FindPath returns world-space waypoints from the start to the goal across
// a grid blocked by static bodies. The last node is the exact goal. With no
// level bounds, or no route, it falls back to the straight line.
func FindPath(w *ecs.World, startX, startY, goalX, goalY, gridSize float64) []component.PathNode {
	direct := []component.PathNode{{X: goalX, Y: goalY}}

	bounds, ok := ecs.Singleton(w, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return direct
	}
	if gridSize <= 0 {
		gridSize = defaultPathGridSize
	}

	gridW := int(math.Ceil(bounds.Width / gridSize))
	gridH := int(math.Ceil(bounds.Height / gridSize))
	if gridW <= 0 || gridH <= 0 {
		return direct
	}

	blocked := buildBlockedGrid(w, gridW, gridH, gridSize)
	start := gridCoord(startX, startY, gridSize, gridW, gridH)
	goal := gridCoord(goalX, goalY, gridSize, gridW, gridH)

	path := astarPath(start, goal, blocked, gridW, gridH)
	if len(path) == 0 {
		return direct
	}

	// drop the cell we are standing in and end on the real goal point
	nodes := gridPathToWorld(path[1:], gridSize)
	if len(nodes) == 0 {
		return direct
	}
	nodes[len(nodes)-1] = component.PathNode{X: goalX, Y: goalY}
	return nodes
}

func gridCoord(x, y, gridSize float64, gridW, gridH int) gridPos {
	gx := int(math.Floor(x / gridSize))
	gy := int(math.Floor(y / gridSize))
	gx = max(0, min(gx, gridW-1))
	gy = max(0, min(gy, gridH-1))
	return gridPos{x: gx, y: gy}
}

func gridPathToWorld(path []gridPos, gridSize float64) []component.PathNode {
	if len(path) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(path))
	half := gridSize * 0.5
	for _, p := range path {
		out = append(out, component.PathNode{
			X: float64(p.x)*gridSize + half,
			Y: float64(p.y)*gridSize + half,
		})
	}
	return out
}

func buildBlockedGrid(w *ecs.World, gridW, gridH int, gridSize float64) []bool {
	blocked := make([]bool, gridW*gridH)
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, transform *component.Transform) {
		if !body.Static {
			return
		}

		minX, minY, maxX, maxY := bodyAABB(transform, body)
		startX := max(0, int(math.Floor(minX/gridSize)))
		startY := max(0, int(math.Floor(minY/gridSize)))
		endX := min(gridW-1, int(math.Floor((maxX-0.001)/gridSize)))
		endY := min(gridH-1, int(math.Floor((maxY-0.001)/gridSize)))

		for y := startY; y <= endY; y++ {
			for x := startX; x <= endX; x++ {
				blocked[y*gridW+x] = true
			}
		}
	})

	return blocked
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) []gridPos {
	if start.x < 0 || start.y < 0 || goal.x < 0 || goal.y < 0 {
		return nil
	}
	if start.x >= gridW || start.y >= gridH || goal.x >= gridW || goal.y >= gridH {
		return nil
	}
	if blocked[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x
		if current.g > gScore[curIdx] {
			continue
		}

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.y*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + heuristic(n, goal), g: tentativeG})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
