package core

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type MapID uint64

type MarkerID uint64

// Marker is a clickable point on a map that leads to another map.
type Marker struct {
	Target   MapID
	Position V2
	Image    string
}

type MapInfo struct {
	Content string
}

type Map struct {
	ID      MapID
	Parent  *MapID
	Markers map[MarkerID]*Marker
	Info    MapInfo
	Image   string
}

func NewMap(id MapID, image string) *Map {
	return &Map{
		ID:      id,
		Markers: make(map[MarkerID]*Marker),
		Image:   image,
	}
}

// Project is everything the session navigates: all maps, the current one
// and the way back.
type Project struct {
	Current MapID
	Maps    map[MapID]*Map
	History []MapID
}

func NewProject() *Project {
	return &Project{Maps: make(map[MapID]*Map)}
}

func (p *Project) AddMap(m *Map) {
	if m.Markers == nil {
		m.Markers = make(map[MarkerID]*Marker)
	}
	p.Maps[m.ID] = m
}

// Resolve returns the map with the given id or ErrMissingMap.
func (p *Project) Resolve(id MapID) (*Map, error) {
	if m, ok := p.Maps[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrMissingMap, id)
}

func (p *Project) CurrentMap() (*Map, error) {
	return p.Resolve(p.Current)
}

// ParentOf resolves m's parent. ok is false when m has no parent; a parent id
// that does not resolve is an error.
func (p *Project) ParentOf(m *Map) (parent *Map, ok bool, err error) {
	if m.Parent == nil {
		return nil, false, nil
	}
	parent, err = p.Resolve(*m.Parent)
	if err != nil {
		return nil, false, err
	}
	return parent, true, nil
}

func (p *Project) PushHistory(id MapID) {
	p.History = append(p.History, id)
}

// PeekHistory returns the most recent history entry without removing it.
func (p *Project) PeekHistory() (MapID, bool) {
	if len(p.History) == 0 {
		return 0, false
	}
	return p.History[len(p.History)-1], true
}

func (p *Project) PopHistory() (MapID, bool) {
	id, ok := p.PeekHistory()
	if ok {
		p.History = p.History[:len(p.History)-1]
	}
	return id, ok
}

// SortedMapIDs returns all map ids in ascending order.
func (p *Project) SortedMapIDs() []MapID {
	ids := make([]MapID, 0, len(p.Maps))
	for id := range p.Maps {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Map) SortedMarkerIDs() []MarkerID {
	ids := make([]MarkerID, 0, len(m.Markers))
	for id := range m.Markers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NextMarkerID returns an id not used by any marker in the project. Marker
// records share one namespace across all maps.
func (p *Project) NextMarkerID() MarkerID {
	var next MarkerID
	for _, m := range p.Maps {
		for id := range m.Markers {
			if id >= next {
				next = id + 1
			}
		}
	}
	return next
}

func (p *Project) AddMarker(host MapID, mk *Marker) (MarkerID, error) {
	m, err := p.Resolve(host)
	if err != nil {
		return 0, err
	}
	id := p.NextMarkerID()
	m.Markers[id] = mk
	return id, nil
}

// Title is the map's display name: the first non-blank line of its notes,
// title-cased, or "Map N" when there are no notes.
func (m *Map) Title() string {
	for _, line := range strings.Split(m.Info.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return cases.Title(language.English, cases.NoLower).String(line)
		}
	}
	return fmt.Sprintf("Map %d", m.ID)
}
