package app

import (
	"context"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/app/core"
	"github.com/lpenlpen/atlas/util"
	"github.com/tliron/commonlog"
)

// StatusFrames is how long a status message stays on screen.
const StatusFrames = 240

// MaxSearchHits is how many quick-jump results are listed.
const MaxSearchHits = 8

type SearchPrompt struct {
	Open     bool
	Query    string
	Hits     []core.SearchHit
	Selected int
}

// UI turns frame events into session operations and remembers what the
// overlays show.
type UI struct {
	Settings *Settings
	Session  *core.Session
	Textures *TextureCache

	Search SearchPrompt

	Status      string
	StatusError bool
	statusLeft  int

	log commonlog.Logger
}

func NewUI(s *Settings, p *core.Project, st core.Store, images core.ImageSizer, m core.TextMeasurer, window V2) (*UI, error) {
	session, err := core.NewSession(p, images, m, st, window, float32(s.FontSize))
	if err != nil {
		return nil, err
	}
	return &UI{
		Settings: s,
		Session:  session,
		log:      commonlog.GetLogger("atlas.ui"),
	}, nil
}

func (ui *UI) setStatus(msg string, isErr bool) {
	ui.Status, ui.StatusError, ui.statusLeft = msg, isErr, StatusFrames
}

func (ui *UI) fail(err error) {
	ui.setStatus(err.Error(), true)
}

func (ui *UI) save() {
	if err := ui.Session.Save(context.Background()); err != nil {
		ui.fail(err)
		return
	}
	ui.setStatus("Saved", false)
}

// Update applies one frame of input.
func (ui *UI) Update(ev Events, window V2) {
	s := ui.Session
	// A minimized window reports no size; keep the last layout until it is
	// restored.
	if window != s.Window && window.X > 0 && window.Y > 0 {
		if err := s.Resize(window); err != nil {
			ui.fail(err)
		}
	}

	switch {
	case ui.Search.Open:
		ui.updateSearch(ev)
	case s.Editing:
		ui.updateEditing(ev)
	default:
		ui.updateViewing(ev)
	}

	if ev.Wheel != 0 {
		s.Wheel(ev.Wheel, core.Vec(ev.Mouse))
	}
	if ev.Dragging && s.Cameras.IsWithin(core.MapCamera, core.Vec(ev.DragStart)) {
		s.Drag(core.Vec(ev.DragDelta))
	}
	if ev.Clicked && !ui.Search.Open {
		if _, err := s.Click(core.Vec(ev.ClickPos)); err != nil {
			ui.fail(err)
		}
	}
}

func (ui *UI) updateViewing(ev Events) {
	s := ui.Session
	switch {
	case ev.Ctrl && ev.Pressed(rl.KeyS):
		ui.save()
	case ev.Ctrl && ev.Pressed(rl.KeyF):
		ui.Search = SearchPrompt{Open: true}
		ui.refreshSearch()
	case ev.Pressed(rl.KeyE):
		s.ToggleEdit()
	case ev.Pressed(rl.KeyBackspace):
		if err := s.Back(); err != nil {
			ui.fail(err)
		}
	}
}

func (ui *UI) updateEditing(ev Events) {
	s := ui.Session
	if ev.Ctrl {
		if ev.Pressed(rl.KeyS) {
			ui.save()
		}
		return
	}
	if ev.Pressed(rl.KeyEscape) {
		s.ToggleEdit()
		return
	}
	for _, key := range ev.Keys {
		if action, ok := EditActions[key]; ok {
			s.EditKey(action)
		}
	}
	for _, r := range ev.Chars {
		s.TypeRune(r)
	}
}

func (ui *UI) updateSearch(ev Events) {
	q := &ui.Search
	switch {
	case ev.Pressed(rl.KeyEscape):
		ui.Search = SearchPrompt{}
		return
	case ev.Pressed(rl.KeyEnter) || ev.Pressed(rl.KeyKpEnter):
		if q.Selected < len(q.Hits) {
			if err := ui.Session.JumpTo(q.Hits[q.Selected].ID); err != nil {
				ui.fail(err)
			}
		}
		ui.Search = SearchPrompt{}
		return
	case ev.Pressed(rl.KeyUp):
		q.Selected = max(q.Selected-1, 0)
	case ev.Pressed(rl.KeyDown):
		q.Selected = min(q.Selected+1, max(len(q.Hits)-1, 0))
	}

	changed := false
	if ev.Pressed(rl.KeyBackspace) && q.Query != "" {
		_, size := utf8.DecodeLastRuneInString(q.Query)
		q.Query = q.Query[:len(q.Query)-size]
		changed = true
	}
	if !ev.Ctrl && len(ev.Chars) > 0 {
		q.Query += string(ev.Chars)
		changed = true
	}
	if changed {
		ui.refreshSearch()
	}
}

func (ui *UI) refreshSearch() {
	q := &ui.Search
	if q.Query == "" {
		p := ui.Session.Project
		q.Hits = util.Map(p.SortedMapIDs(), func(id core.MapID) core.SearchHit {
			return core.SearchHit{ID: id, Title: p.Maps[id].Title()}
		})
	} else {
		q.Hits = ui.Session.Project.Search(q.Query)
	}
	if len(q.Hits) > MaxSearchHits {
		q.Hits = q.Hits[:MaxSearchHits]
	}
	q.Selected = 0
}

func screenSize() V2 {
	return V2{X: float32(rl.GetScreenWidth()), Y: float32(rl.GetScreenHeight())}
}

// Main opens the project from the settings and runs the viewer until the
// window is closed.
func Main(s *Settings) error {
	log := commonlog.GetLogger("atlas")

	st, err := core.OpenStore(s.Store, s.StoreLocation())
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.Load(context.Background())
	if err != nil {
		return err
	}
	log.Infof("opened %s (%d maps)", s.StoreLocation(), len(project.Maps))

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(s.WindowWidth), int32(s.WindowHeight), "Atlas")
	defer rl.CloseWindow()

	monitorWidth := rl.GetMonitorWidth(rl.GetCurrentMonitor())
	monitorHeight := rl.GetMonitorHeight(rl.GetCurrentMonitor())
	rl.SetWindowPosition(monitorWidth/2-s.WindowWidth/2, monitorHeight/2-s.WindowHeight/2)
	if s.WindowMaximized {
		rl.MaximizeWindow()
	}
	rl.SetTargetFPS(int32(rl.GetMonitorRefreshRate(rl.GetCurrentMonitor())))

	textures := NewTextureCache(s.ProjectDir)
	defer textures.Close()
	defer UnloadFonts()

	ui, err := NewUI(s, project, st, textures, FontMeasurer{FontPath: s.FontPath}, screenSize())
	if err != nil {
		return err
	}
	ui.Textures = textures
	input := NewPointer(RealInputProvider{})

	rl.SetExitKey(0)
	for !rl.WindowShouldClose() {
		ui.Update(input.Poll(), screenSize())
		ui.Draw()
	}

	if err := ui.Session.Save(context.Background()); err != nil {
		log.Errorf("save on exit: %s", err.Error())
	}
	s.WindowMaximized = rl.IsWindowMaximized()
	if !s.WindowMaximized {
		s.WindowWidth, s.WindowHeight = rl.GetScreenWidth(), rl.GetScreenHeight()
	}
	if err := SaveSettings(GetSettingsPath(), s); err != nil {
		log.Warningf("save settings: %s", err.Error())
	}
	return nil
}
