package core

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// monoMeasurer lays text out in a fixed-width font: every rune is Advance
// wide and every line is the font size tall.
type monoMeasurer struct {
	Advance float32
	Calls   int
}

func (m *monoMeasurer) MeasureText(text string, fontSize float32) V2 {
	m.Calls++
	return V2{X: float32(utf8.RuneCountInString(text)) * m.Advance, Y: fontSize}
}

type fakeImages map[string]V2

func (f fakeImages) ImageSize(ref string) (V2, error) {
	if size, ok := f[ref]; ok {
		return size, nil
	}
	return V2{}, fmt.Errorf("%w: %s", ErrMissingAsset, ref)
}

type memStore struct {
	Saved   *Project
	Saves   int
	SaveErr error
}

func (s *memStore) Load(ctx context.Context) (*Project, error) {
	if s.Saved == nil {
		return nil, ErrEmptyProject
	}
	return s.Saved, nil
}

func (s *memStore) Save(ctx context.Context, p *Project) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.Saved = p
	return nil
}

func (s *memStore) Close() error { return nil }

func mapID(id MapID) *MapID { return &id }

// testProject is a small atlas:
//
//	0 world  -> markers 1 (to 1) and 2 (to 2)
//	1 city   (parent 0) -> marker 3 (back to 0)
//	2 cave   (parent 0, image missing)
//	3 orphan (parent 99, which does not exist)
func testProject() *Project {
	p := NewProject()

	world := NewMap(0, "world.png")
	world.Info.Content = "# World overview\nThe whole continent."
	world.Markers[1] = &Marker{Target: 1, Position: xy(875.2, 860), Image: "pin.png"}
	world.Markers[2] = &Marker{Target: 2, Position: xy(100, 100), Image: "pin.png"}
	p.AddMap(world)

	city := NewMap(1, "city.png")
	city.Parent = mapID(0)
	city.Info.Content = "City notes"
	city.Markers[3] = &Marker{Target: 0, Position: xy(500, 500)}
	p.AddMap(city)

	cave := NewMap(2, "cave.png")
	cave.Parent = mapID(0)
	p.AddMap(cave)

	orphan := NewMap(3, "world.png")
	orphan.Parent = mapID(99)
	p.AddMap(orphan)

	return p
}

func testImages() fakeImages {
	return fakeImages{
		"world.png": xy(2000, 1500),
		"city.png":  xy(1000, 1000),
	}
}
