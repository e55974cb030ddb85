package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ImportImageMap turns the <area> elements of an (X)HTML image map into
// markers on the host map. Each area's href names the target map as
// "map-N", "map-N.json", "#map-N" or just "N"; the marker sits at the area's
// centroid. Either every area is imported or none is.
func ImportImageMap(r io.Reader, p *Project, host MapID) ([]MarkerID, error) {
	hostMap, err := p.Resolve(host)
	if err != nil {
		return nil, err
	}

	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse image map: %v", err)
	}
	areas, err := xmlquery.QueryAll(doc, "//area")
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %v", err)
	}

	markers := make([]*Marker, 0, len(areas))
	for i, area := range areas {
		target, err := parseAreaTarget(area.SelectAttr("href"))
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		if _, err := p.Resolve(target); err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		pos, err := areaCentroid(area.SelectAttr("shape"), area.SelectAttr("coords"))
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		markers = append(markers, &Marker{
			Target:   target,
			Position: pos,
			Image:    area.SelectAttr("data-image"),
		})
	}

	ids := make([]MarkerID, 0, len(markers))
	for _, mk := range markers {
		id := p.NextMarkerID()
		hostMap.Markers[id] = mk
		ids = append(ids, id)
	}
	return ids, nil
}

func parseAreaTarget(href string) (MapID, error) {
	s := strings.TrimPrefix(strings.TrimSpace(href), "#")
	s = strings.TrimSuffix(s, ".json")
	s = strings.TrimPrefix(s, "map-")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad href %q", href)
	}
	return MapID(id), nil
}

func areaCentroid(shape, coords string) (V2, error) {
	var nums []float32
	for _, f := range strings.Split(coords, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return V2{}, fmt.Errorf("bad coords %q", coords)
		}
		nums = append(nums, float32(v))
	}

	switch strings.ToLower(shape) {
	case "circle", "circ":
		if len(nums) != 3 {
			return V2{}, fmt.Errorf("circle needs 3 coords, got %d", len(nums))
		}
		return xy(nums[0], nums[1]), nil
	case "", "rect", "rectangle":
		if len(nums) != 4 {
			return V2{}, fmt.Errorf("rect needs 4 coords, got %d", len(nums))
		}
		return xy((nums[0]+nums[2])/2, (nums[1]+nums[3])/2), nil
	case "poly", "polygon":
		if len(nums) < 6 || len(nums)%2 != 0 {
			return V2{}, fmt.Errorf("poly needs an even number of coords, at least 6, got %d", len(nums))
		}
		var c V2
		n := float32(len(nums) / 2)
		for i := 0; i < len(nums); i += 2 {
			c.X += nums[i] / n
			c.Y += nums[i+1] / n
		}
		return c, nil
	default:
		return V2{}, fmt.Errorf("unsupported shape %q", shape)
	}
}
