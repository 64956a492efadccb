package route

import (
	"strings"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

// OtherCategory is assigned to places whose proposed category matches nothing in the catalog.
var OtherCategory = types.CategoryRef{ID: 0, Name: "Other"}

// CategoryMatcher maps a model-proposed category name onto a catalog category.
type CategoryMatcher interface {
	Match(proposed string) types.CategoryRef
}

// PlaceResolver maps a model-proposed title onto a catalog place. ok is false when nothing matches.
type PlaceResolver interface {
	Resolve(title string) (types.Place, bool)
}

var (
	_ CategoryMatcher = (*SubstringMatcher)(nil)
	_ PlaceResolver   = (*ExactTitleResolver)(nil)
)

var nameFolder = strings.NewReplacer("ё", "е", "й", "и")

// normalizeName lowercases and folds the letters models swap most often in Russian names.
func normalizeName(s string) string {
	return strings.TrimSpace(nameFolder.Replace(strings.ToLower(s)))
}

type categoryEntry struct {
	key string
	ref types.CategoryRef
}

// SubstringMatcher returns the first catalog category whose normalized name occurs
// inside the normalized proposal. Iteration follows catalog order; there is no scoring.
type SubstringMatcher struct {
	entries []categoryEntry
}

func BuildCategoryIndex(categories []types.Category) *SubstringMatcher {
	m := &SubstringMatcher{entries: make([]categoryEntry, 0, len(categories))}
	for _, c := range categories {
		key := normalizeName(c.Name)
		if key == "" {
			continue
		}
		m.entries = append(m.entries, categoryEntry{key: key, ref: types.CategoryRef{ID: c.ID, Name: c.Name}})
	}
	return m
}

func (m *SubstringMatcher) Match(proposed string) types.CategoryRef {
	target := normalizeName(proposed)
	if target == "" {
		return OtherCategory
	}
	for _, e := range m.entries {
		if strings.Contains(target, e.key) {
			return e.ref
		}
	}
	return OtherCategory
}

// ExactTitleResolver matches titles case-insensitively and exactly. The first catalog row wins on duplicates.
type ExactTitleResolver struct {
	byTitle map[string]types.Place
}

func NewExactTitleResolver(places []types.Place) *ExactTitleResolver {
	r := &ExactTitleResolver{byTitle: make(map[string]types.Place, len(places))}
	for _, p := range places {
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if _, exists := r.byTitle[key]; exists || key == "" {
			continue
		}
		r.byTitle[key] = p
	}
	return r
}

func (r *ExactTitleResolver) Resolve(title string) (types.Place, bool) {
	p, ok := r.byTitle[strings.ToLower(strings.TrimSpace(title))]
	return p, ok
}

// Reconciler turns model proposals into candidate places bound to catalog ids.
type Reconciler struct {
	categories CategoryMatcher
	places     PlaceResolver
}

func NewReconciler(categories CategoryMatcher, places PlaceResolver) *Reconciler {
	return &Reconciler{categories: categories, places: places}
}

// Reconcile never fails. Unmatched places keep id 0 and unmatched categories become OtherCategory.
func (r *Reconciler) Reconcile(proposed []ProposedPlace) []types.CandidatePlace {
	out := make([]types.CandidatePlace, 0, len(proposed))
	for _, p := range proposed {
		c := types.CandidatePlace{
			Title:            p.Title,
			Address:          strings.TrimSpace(p.Address),
			Coordinates:      p.Point(),
			Category:         r.categories.Match(p.Category.Name),
			ProposedCategory: p.Category.Name,
			Description:      p.Description,
			Reasoning:        p.Reasoning,
		}
		if p.VisitDuration.Set {
			v := int(p.VisitDuration.Value)
			c.VisitDuration = &v
		}
		if p.DistanceFromUser.Set {
			d := p.DistanceFromUser.Value
			c.DistanceFromUser = &d
		}

		if place, ok := r.places.Resolve(p.Title); ok {
			c.PlaceID = place.ID
			if c.Address == "" {
				c.Address = place.Address
			}
			catalogPoint := types.Coordinates{Latitude: place.Latitude, Longitude: place.Longitude}
			if !c.HasCoordinates() && !catalogPoint.IsZero() {
				c.Coordinates = &catalogPoint
			}
		}
		out = append(out, c)
	}
	return out
}
