package services

import (
	"github.com/zyedidia/generic/mapset"

	"maze-daze/server/models"
)

// IsReachable reports whether exit can be reached from start by walking
// through open cells with 4-directional steps
func IsReachable(grid *models.Grid, start, exit models.Position) bool {
	if grid == nil || !grid.IsOpen(start.X, start.Y) || !grid.IsOpen(exit.X, exit.Y) {
		return false
	}

	visited := mapset.New[models.Position]()
	visited.Put(start)
	queue := []models.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == exit {
			return true
		}
		for _, d := range models.Directions {
			n := current.Add(d)
			if grid.IsOpen(n.X, n.Y) && !visited.Has(n) {
				visited.Put(n)
				queue = append(queue, n)
			}
		}
	}
	return false
}

// ForcePath carves a monotonic staircase of open cells from start to exit,
// alternating one step along x and one along y and finishing along whichever
// axis is left. Walls on the way are overwritten. The carved cells are
// returned in walking order.
func ForcePath(grid *models.Grid, start, exit models.Position) []models.Position {
	stepX, stepY := sign(exit.X-start.X), sign(exit.Y-start.Y)
	p := start
	path := []models.Position{p}
	grid.Open(p.X, p.Y)

	moveX := true
	for p != exit {
		switch {
		case p.X == exit.X:
			p.Y += stepY
		case p.Y == exit.Y:
			p.X += stepX
		case moveX:
			p.X += stepX
		default:
			p.Y += stepY
		}
		moveX = !moveX
		grid.Open(p.X, p.Y)
		path = append(path, p)
	}
	return path
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
