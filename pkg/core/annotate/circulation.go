package annotate

import (
	"github.com/matzehuels/boxplan/pkg/core/corridor"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// CirculationPath is a directed centre line through a corridor.
type CirculationPath struct {
	Type       corridor.Type    `json:"type"`
	CorridorID string           `json:"corridorId"`
	Path       []geometry.Point `json:"path"`
}

// Circulation derives one path per corridor, directed from the centre line
// end farther from the entrance centroid toward the nearer end. Without
// entrances (hasEntrance false) paths run from the low end to the high end.
func Circulation(corridors []corridor.Corridor, entrance geometry.Point, hasEntrance bool) []CirculationPath {
	out := make([]CirculationPath, 0, len(corridors))
	for _, c := range corridors {
		line := c.Centerline()
		from, to := line.A, line.B
		if hasEntrance && geometry.Dist(from, entrance) < geometry.Dist(to, entrance) {
			from, to = to, from
		}
		out = append(out, CirculationPath{
			Type:       c.Type,
			CorridorID: c.ID,
			Path:       []geometry.Point{from, to},
		})
	}
	return out
}
