package services

import "maze-daze/server/models"

// latticeSteps are the 2-cell jumps of the backtracker; the cell in between
// is the wall that gets carved
var latticeSteps = [4]models.Position{{X: 0, Y: 2}, {X: 0, Y: -2}, {X: 2, Y: 0}, {X: -2, Y: 0}}

type carveFrame struct {
	pos  models.Position
	dirs [4]models.Position
	next int
}

// Generate carves a perfect maze with randomized depth-first backtracking
// over the even lattice, starting at (0,0). The recursion is unrolled onto an
// explicit stack so a 101x101 grid needs no deep call chain; each frame keeps
// its own shuffled direction list and resumes where it left off, which gives
// the same mazes as the recursive form for the same random source.
func Generate(cols, rows int, rng Rand) *models.Grid {
	grid := models.NewGrid(cols, rows)
	if cols < 1 || rows < 1 {
		return grid
	}

	start := models.Position{X: 0, Y: 0}
	grid.Open(start.X, start.Y)
	stack := []*carveFrame{newCarveFrame(start, rng)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.dirs) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.dirs[top.next]
		top.next++

		n := top.pos.Add(d)
		if !grid.IsWall(n.X, n.Y) {
			continue
		}
		grid.Open(top.pos.X+d.X/2, top.pos.Y+d.Y/2)
		grid.Open(n.X, n.Y)
		stack = append(stack, newCarveFrame(n, rng))
	}

	return grid
}

func newCarveFrame(p models.Position, rng Rand) *carveFrame {
	f := &carveFrame{pos: p, dirs: latticeSteps}
	rng.Shuffle(len(f.dirs), func(i, j int) {
		f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i]
	})
	return f
}
