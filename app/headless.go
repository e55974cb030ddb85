package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/lpenlpen/atlas/app/core"
	"github.com/lpenlpen/atlas/trace"
)

type command struct {
	args  string
	nargs int
	run   func(ctx context.Context, out io.Writer, st core.Store, s *Settings, args []string) error
}

var commands = map[string]command{
	"check": {"<dir>", 0, func(ctx context.Context, out io.Writer, st core.Store, s *Settings, args []string) error {
		return CheckProject(ctx, out, st, NewImageProbe(s.ProjectDir))
	}},
	"find": {"<dir> <query>", 1, func(ctx context.Context, out io.Writer, st core.Store, s *Settings, args []string) error {
		return FindMaps(ctx, out, st, args[0])
	}},
	"filter": {"<dir> <expression>", 1, func(ctx context.Context, out io.Writer, st core.Store, s *Settings, args []string) error {
		return FilterMaps(ctx, out, st, args[0])
	}},
	"import": {"<dir> <map-id> <file.xhtml>", 2, func(ctx context.Context, out io.Writer, st core.Store, s *Settings, args []string) error {
		host, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad map id %q", args[0])
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		return ImportAreas(ctx, out, st, core.MapID(host), f)
	}},
}

// IsHeadlessCommand reports whether name is a command HeadlessRun knows.
func IsHeadlessCommand(name string) bool {
	_, ok := commands[name]
	return ok
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  atlas                              open the viewer")
	for _, name := range []string{"check", "find", "filter", "import"} {
		fmt.Fprintf(w, "  atlas %s %s\n", name, commands[name].args)
	}
}

// HeadlessRun runs one command without opening a window and returns the
// process exit code. args[0] is the command name, args[1] the project
// directory.
func HeadlessRun(args []string, s *Settings) int {
	if len(args) < 2 {
		usage(os.Stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok || len(args)-2 != cmd.nargs {
		usage(os.Stderr)
		return 2
	}
	s.ProjectDir = args[1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	st, err := core.OpenStore(s.Store, s.StoreLocation())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer st.Close()

	if err := cmd.run(ctx, os.Stdout, st, s, args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var se *core.StoreError
		if errors.As(err, &se) {
			fmt.Fprint(os.Stderr, trace.Format(se.Stack))
		}
		return 1
	}
	return 0
}

// CheckProject loads the project and reports every map image, parent and
// marker target that does not resolve.
func CheckProject(ctx context.Context, out io.Writer, st core.Store, images core.ImageSizer) error {
	p, err := st.Load(ctx)
	if err != nil {
		return err
	}

	markers := 0
	problems := 0
	report := func(format string, args ...any) {
		problems++
		fmt.Fprintf(out, "  "+format+"\n", args...)
	}

	for _, id := range p.SortedMapIDs() {
		m := p.Maps[id]
		if _, err := images.ImageSize(m.Image); err != nil {
			report("map %d: %v", id, err)
		}
		if _, _, err := p.ParentOf(m); err != nil {
			report("map %d: parent: %v", id, err)
		}
		for _, mid := range m.SortedMarkerIDs() {
			markers++
			mk := m.Markers[mid]
			if _, err := p.Resolve(mk.Target); err != nil {
				report("marker %d on map %d: %v", mid, id, err)
			}
			if mk.Image != "" {
				if _, err := images.ImageSize(mk.Image); err != nil {
					report("marker %d on map %d: %v", mid, id, err)
				}
			}
		}
	}

	fmt.Fprintf(out, "Project loaded. %d maps, %d markers, current map %d.\n", len(p.Maps), markers, p.Current)
	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	fmt.Fprintln(out, "No problems found.")
	return nil
}

func FindMaps(ctx context.Context, out io.Writer, st core.Store, query string) error {
	p, err := st.Load(ctx)
	if err != nil {
		return err
	}
	hits := p.Search(query)
	if len(hits) == 0 {
		fmt.Fprintf(out, "No maps match %q.\n", query)
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%d\t%s\n", h.ID, h.Title)
	}
	return nil
}

func FilterMaps(ctx context.Context, out io.Writer, st core.Store, expression string) error {
	p, err := st.Load(ctx)
	if err != nil {
		return err
	}
	ids, err := p.Filter(expression)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintf(out, "%d\t%s\n", id, p.Maps[id].Title())
	}
	return nil
}

// ImportAreas adds the areas of an HTML image map as markers on host and
// saves the project.
func ImportAreas(ctx context.Context, out io.Writer, st core.Store, host core.MapID, r io.Reader) error {
	p, err := st.Load(ctx)
	if err != nil {
		return err
	}
	ids, err := core.ImportImageMap(r, p, host)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d markers into map %d.\n", len(ids), host)
	return nil
}
