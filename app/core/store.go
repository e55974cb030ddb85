package core

import (
	"context"
	"fmt"
)

// Store loads and saves whole projects. Maps and markers are records keyed
// by numeric id; a map refers to its markers and its parent by id.
type Store interface {
	Load(ctx context.Context) (*Project, error)
	Save(ctx context.Context, p *Project) error
	Close() error
}

const (
	StoreFiles  = "files"
	StoreSQLite = "sqlite"
)

// OpenStore opens a store of the given kind. For "files" location is the
// project directory, for "sqlite" the database file.
func OpenStore(kind, location string) (Store, error) {
	switch kind {
	case StoreFiles, "":
		return NewFileStore(location), nil
	case StoreSQLite:
		return NewSQLiteStore(location)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// pickCurrent keeps a stored current map if it exists, otherwise the lowest
// map id.
func pickCurrent(p *Project, stored MapID, haveStored bool) error {
	ids := p.SortedMapIDs()
	if len(ids) == 0 {
		return ErrEmptyProject
	}
	if _, ok := p.Maps[stored]; haveStored && ok {
		p.Current = stored
	} else {
		p.Current = ids[0]
	}
	return nil
}
