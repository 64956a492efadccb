package route

import (
	"math"
	"sort"

	"github.com/FACorreiaa/go-tourist-routes/config"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

// walkingSpeedKmh is the assumed pedestrian pace used to derive walking time.
const walkingSpeedKmh = 4.5

// Assembler derives the route aggregates from reconciled places.
type Assembler struct {
	DefaultVisitMinutes int
	DefaultDistanceKm   float64
	MapZoom             int
}

func NewAssembler(cfg config.RouteConfig) *Assembler {
	return &Assembler{
		DefaultVisitMinutes: cfg.DefaultVisitMinutes,
		DefaultDistanceKm:   cfg.DefaultDistanceKm,
		MapZoom:             cfg.MapZoom,
	}
}

// Assemble keeps the given order. Missing or negative visit durations and distances are
// replaced by the defaults, and the returned places carry the values that were summed.
func (a *Assembler) Assemble(places []types.CandidatePlace, user types.UserLocation) types.RouteResult {
	out := make([]types.CandidatePlace, len(places))
	order := make([]int, len(places))
	visit := 0
	distance := 0.0
	var latSum, lonSum float64
	located := 0
	seen := make(map[int]struct{})
	selected := make([]int, 0)

	for i, p := range places {
		v := a.DefaultVisitMinutes
		if p.VisitDuration != nil && *p.VisitDuration >= 0 {
			v = *p.VisitDuration
		}
		d := a.DefaultDistanceKm
		if p.DistanceFromUser != nil && *p.DistanceFromUser >= 0 {
			d = *p.DistanceFromUser
		}
		p.VisitDuration = &v
		p.DistanceFromUser = &d
		visit += v
		distance += d

		if p.HasCoordinates() {
			latSum += p.Coordinates.Latitude
			lonSum += p.Coordinates.Longitude
			located++
		}
		if p.Category.ID != 0 {
			if _, dup := seen[p.Category.ID]; !dup {
				seen[p.Category.ID] = struct{}{}
				selected = append(selected, p.Category.ID)
			}
		}
		out[i] = p
		order[i] = p.PlaceID
	}
	sort.Ints(selected)

	distance = round2(distance)
	walking := 0
	if distance > 0 {
		walking = int(math.Round(distance / walkingSpeedKmh * 60))
	}

	center := [2]float64{user.Latitude, user.Longitude}
	if located > 0 {
		center = [2]float64{latSum / float64(located), lonSum / float64(located)}
	}

	return types.RouteResult{
		Places:             out,
		RouteOrder:         order,
		TotalPlaces:        len(out),
		TotalTimeMinutes:   visit + walking,
		TotalDistanceKm:    distance,
		WalkingTimeMinutes: walking,
		VisitTimeMinutes:   visit,
		MapCenter:          center,
		SelectedCategories: selected,
		MapData:            types.MapData{Center: center, Zoom: a.MapZoom},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
