package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type SearchHit struct {
	ID       MapID
	Title    string
	Distance int
}

// Search fuzzy-matches query against map titles, case-insensitively. Closer
// matches come first; ties go to the lower map id.
func (p *Project) Search(query string) []SearchHit {
	ids := p.SortedMapIDs()
	titles := make([]string, len(ids))
	for i, id := range ids {
		titles[i] = p.Maps[id].Title()
	}

	var hits []SearchHit
	for _, r := range fuzzy.RankFindFold(query, titles) {
		hits = append(hits, SearchHit{
			ID:       ids[r.OriginalIndex],
			Title:    r.Target,
			Distance: r.Distance,
		})
	}
	slices.SortFunc(hits, func(a, b SearchHit) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.ID, b.ID))
	})
	return hits
}

// MapEnv is what a filter expression sees of one map.
type MapEnv struct {
	ID        uint64
	Parent    uint64
	HasParent bool
	Title     string
	Content   string
	Image     string
	Markers   int
	Targets   []uint64
}

func mapEnv(m *Map) MapEnv {
	env := MapEnv{
		ID:      uint64(m.ID),
		Title:   m.Title(),
		Content: m.Info.Content,
		Image:   m.Image,
		Markers: len(m.Markers),
	}
	if m.Parent != nil {
		env.Parent, env.HasParent = uint64(*m.Parent), true
	}
	for _, id := range m.SortedMarkerIDs() {
		env.Targets = append(env.Targets, uint64(m.Markers[id].Target))
	}
	return env
}

// Filter returns the ids of all maps for which the boolean expression holds,
// e.g. `HasParent && Markers > 2` or `Content contains "river"`.
func (p *Project) Filter(expression string) ([]MapID, error) {
	program, err := expr.Compile(expression, expr.Env(MapEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("bad expression: %v", err)
	}

	var ids []MapID
	for _, id := range p.SortedMapIDs() {
		out, err := expr.Run(program, mapEnv(p.Maps[id]))
		if err != nil {
			return nil, fmt.Errorf("map %d: %v", id, err)
		}
		if out.(bool) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
