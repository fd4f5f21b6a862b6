package pcb

// PointGroup is a 4-connected set of points
type PointGroup struct {
	Points []Coord
	Locked bool
}

// Size returns the number of points in the group
func (g PointGroup) Size() int {
	return len(g.Points)
}

// Partition splits the points for which remaining returns true into
// 4-connected groups. Groups are ordered by their first point in raster
// order, and points within a group are listed in discovery order.
func Partition(grid *Grid, remaining func(x, y int, p *Point) bool) []PointGroup {
	height := grid.Height()
	width := grid.Width()
	labels := make([][]int, height)
	for y := range labels {
		labels[y] = make([]int, width)
	}

	included := func(x, y int) bool {
		point := grid.Get(x, y)
		return point != nil && (remaining == nil || remaining(x, y, point))
	}

	var groups []PointGroup
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y][x] != 0 || !included(x, y) {
				continue
			}

			groups = append(groups, PointGroup{})
			label := len(groups)
			group := &groups[label-1]

			labels[y][x] = label
			queue := []Coord{{X: x, Y: y}}
			for len(queue) > 0 {
				at := queue[0]
				queue = queue[1:]

				group.Points = append(group.Points, at)
				if grid.Get(at.X, at.Y).Locked {
					group.Locked = true
				}

				for _, d := range Cardinals {
					dx, dy := d.Delta()
					next := at.Add(dx, dy)
					if next.X < 0 || next.Y < 0 || next.X >= width || next.Y >= height {
						continue
					}
					if labels[next.Y][next.X] != 0 || !included(next.X, next.Y) {
						continue
					}
					labels[next.Y][next.X] = label
					queue = append(queue, next)
				}
			}
		}
	}

	return groups
}

// Largest returns the index of the group with the most points.
// Ties go to the group found first. It returns -1 for no groups.
func Largest(groups []PointGroup) int {
	best := -1
	for i, g := range groups {
		if best < 0 || g.Size() > groups[best].Size() {
			best = i
		}
	}
	return best
}
