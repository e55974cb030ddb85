package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tliron/commonlog"
)

const projectFileName = "project.json"

// FileKind is the kind of record a project file holds.
type FileKind int

const (
	FileNone FileKind = iota
	FileMap
	FileMarker
)

// RecordFileName returns the file name of a map or marker record.
func RecordFileName(kind FileKind, id uint64) string {
	switch kind {
	case FileMap:
		return fmt.Sprintf("map-%d.json", id)
	case FileMarker:
		return fmt.Sprintf("marker-%d.json", id)
	default:
		panic("no file name for record kind")
	}
}

// ParseRecordFileName is the inverse of RecordFileName.
func ParseRecordFileName(name string) (FileKind, uint64, bool) {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return FileNone, 0, false
	}
	prefix, num, ok := strings.Cut(base, "-")
	if !ok {
		return FileNone, 0, false
	}
	id, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return FileNone, 0, false
	}
	switch prefix {
	case "map":
		return FileMap, id, true
	case "marker":
		return FileMarker, id, true
	}
	return FileNone, 0, false
}

type positionRecord struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type markerRecord struct {
	MapID    MapID          `json:"map_id"`
	Position positionRecord `json:"position"`
	Image    string         `json:"image"`
}

type mapInfoRecord struct {
	Content string `json:"content"`
}

type mapRecord struct {
	MarkerIDs []MarkerID    `json:"marker_ids"`
	MapInfo   mapInfoRecord `json:"map_info"`
	Image     string        `json:"image"`
	ParentID  *MapID        `json:"parent_id"`
}

type projectRecord struct {
	CurrentMap MapID `json:"current_map"`
}

// FileStore keeps one JSON file per map and per marker in a directory.
type FileStore struct {
	Dir string

	log commonlog.Logger
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, log: commonlog.GetLogger("atlas.store")}
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.Dir, name)
}

// Load reads every map record in the directory. Records that cannot be read
// are skipped with a warning, as are markers whose file is missing.
func (fs *FileStore) Load(ctx context.Context) (*Project, error) {
	entries, err := os.ReadDir(fs.Dir)
	if err != nil {
		return nil, newStoreError("load", fs.Dir, err)
	}

	p := NewProject()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		kind, id, ok := ParseRecordFileName(e.Name())
		if !ok || kind != FileMap {
			continue
		}
		m, err := fs.loadMap(MapID(id))
		if err != nil {
			fs.log.Warningf("skipping map %d: %s", id, err.Error())
			continue
		}
		p.AddMap(m)
	}

	stored, haveStored := MapID(0), false
	if data, err := os.ReadFile(fs.path(projectFileName)); err == nil && gjson.ValidBytes(data) {
		if cur := gjson.GetBytes(data, "current_map"); cur.Exists() {
			stored, haveStored = MapID(cur.Uint()), true
		}
	}
	if err := pickCurrent(p, stored, haveStored); err != nil {
		return nil, newStoreError("load", fs.Dir, err)
	}
	return p, nil
}

func (fs *FileStore) readRecord(kind FileKind, id uint64) (gjson.Result, error) {
	path := fs.path(RecordFileName(kind, id))
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid JSON", path)
	}
	return gjson.ParseBytes(data), nil
}

func (fs *FileStore) loadMap(id MapID) (*Map, error) {
	rec, err := fs.readRecord(FileMap, uint64(id))
	if err != nil {
		return nil, err
	}

	m := NewMap(id, rec.Get("image").String())
	m.Info.Content = rec.Get("map_info.content").String()
	if parent := rec.Get("parent_id"); parent.Exists() && parent.Type != gjson.Null {
		pid := MapID(parent.Uint())
		m.Parent = &pid
	}

	for _, mid := range rec.Get("marker_ids").Array() {
		markerID := MarkerID(mid.Uint())
		mk, err := fs.loadMarker(markerID)
		if err != nil {
			fs.log.Warningf("map %d: skipping marker %d: %s", id, markerID, err.Error())
			continue
		}
		m.Markers[markerID] = mk
	}
	return m, nil
}

func (fs *FileStore) loadMarker(id MarkerID) (*Marker, error) {
	rec, err := fs.readRecord(FileMarker, uint64(id))
	if err != nil {
		return nil, err
	}
	if !rec.Get("map_id").Exists() {
		return nil, fmt.Errorf("marker %d has no target map", id)
	}
	return &Marker{
		Target: MapID(rec.Get("map_id").Uint()),
		Position: V2{
			X: float32(rec.Get("position.x").Float()),
			Y: float32(rec.Get("position.y").Float()),
		},
		Image: rec.Get("image").String(),
	}, nil
}

func (fs *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return newStoreError("encode", name, err)
	}
	path := fs.path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return newStoreError("save", path, err)
	}
	return nil
}

// Save writes every map, every marker and the current map id, then removes
// records that are no longer part of the project.
func (fs *FileStore) Save(ctx context.Context, p *Project) error {
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return newStoreError("save", fs.Dir, err)
	}

	for _, id := range p.SortedMapIDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := p.Maps[id]
		markerIDs := m.SortedMarkerIDs()
		for _, mid := range markerIDs {
			mk := m.Markers[mid]
			err := fs.writeJSON(RecordFileName(FileMarker, uint64(mid)), markerRecord{
				MapID:    mk.Target,
				Position: positionRecord{X: mk.Position.X, Y: mk.Position.Y},
				Image:    mk.Image,
			})
			if err != nil {
				return err
			}
		}
		err := fs.writeJSON(RecordFileName(FileMap, uint64(id)), mapRecord{
			MarkerIDs: markerIDs,
			MapInfo:   mapInfoRecord{Content: m.Info.Content},
			Image:     m.Image,
			ParentID:  m.Parent,
		})
		if err != nil {
			return err
		}
	}

	if err := fs.writeJSON(projectFileName, projectRecord{CurrentMap: p.Current}); err != nil {
		return err
	}
	return fs.prune(p)
}

// prune removes record files of maps and markers no longer in p.
func (fs *FileStore) prune(p *Project) error {
	entries, err := os.ReadDir(fs.Dir)
	if err != nil {
		return newStoreError("prune", fs.Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, id, ok := ParseRecordFileName(e.Name())
		if !ok || fs.saved(p, kind, id) {
			continue
		}
		path := fs.path(e.Name())
		if err := os.Remove(path); err != nil {
			return newStoreError("prune", path, err)
		}
		fs.log.Debugf("removed stale record %s", e.Name())
	}
	return nil
}

func (fs *FileStore) saved(p *Project, kind FileKind, id uint64) bool {
	switch kind {
	case FileMap:
		_, ok := p.Maps[MapID(id)]
		return ok
	case FileMarker:
		for _, m := range p.Maps {
			if _, ok := m.Markers[MarkerID(id)]; ok {
				return true
			}
		}
	}
	return false
}

func (fs *FileStore) Close() error { return nil }
