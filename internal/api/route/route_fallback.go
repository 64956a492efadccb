package route

import (
	"math"
	"sort"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

const earthRadiusKm = 6371

// haversineKm returns the great-circle distance between two points in kilometres.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// NearestPlacesStrategy builds a route from the closest active places without the LLM.
type NearestPlacesStrategy struct {
	RadiusKm            float64
	MaxPlaces           int
	DefaultVisitMinutes int
}

type rankedPlace struct {
	place    types.Place
	distance float64
}

// Select returns up to MaxPlaces places within RadiusKm of the user, nearest first,
// stopping once the next stop would exceed the time budget. The nearest place is
// always included when one is in range.
func (s NearestPlacesStrategy) Select(places []types.Place, categories []types.Category,
	user types.UserLocation, availableHours int) []types.CandidatePlace {
	byID := make(map[int]types.CategoryRef, len(categories))
	for _, c := range categories {
		byID[c.ID] = types.CategoryRef{ID: c.ID, Name: c.Name}
	}

	ranked := make([]rankedPlace, 0, len(places))
	for _, p := range places {
		if (types.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}).IsZero() {
			continue
		}
		d := haversineKm(user.Latitude, user.Longitude, p.Latitude, p.Longitude)
		if d <= s.RadiusKm {
			ranked = append(ranked, rankedPlace{place: p, distance: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].distance < ranked[j].distance })

	budget := availableHours * 60
	spent := 0
	out := make([]types.CandidatePlace, 0, s.MaxPlaces)
	for _, r := range ranked {
		if len(out) >= s.MaxPlaces {
			break
		}
		visit := r.place.AvgVisitDuration
		if visit <= 0 {
			visit = s.DefaultVisitMinutes
		}
		cost := visit + int(math.Round(r.distance/walkingSpeedKmh*60))
		if len(out) > 0 && spent+cost > budget {
			break
		}
		spent += cost

		category := OtherCategory
		if r.place.CategoryID != nil {
			if ref, ok := byID[*r.place.CategoryID]; ok {
				category = ref
			}
		}
		dist := round2(r.distance)
		out = append(out, types.CandidatePlace{
			PlaceID:          r.place.ID,
			Title:            r.place.Title,
			Address:          r.place.Address,
			Coordinates:      &types.Coordinates{Latitude: r.place.Latitude, Longitude: r.place.Longitude},
			Category:         category,
			Description:      r.place.Description,
			VisitDuration:    &visit,
			DistanceFromUser: &dist,
		})
	}
	return out
}
