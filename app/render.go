package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lpenlpen/atlas/app/core"
	"github.com/lpenlpen/atlas/util"
)

// Draw renders one frame.
func (ui *UI) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(RGBA(Night, 255))

	ui.drawMap()
	ui.drawParentInset()
	ui.drawNotes()
	ui.drawSearch()
	ui.drawStatus()

	rl.EndDrawing()
}

func viewportRect(cam *core.Camera) rl.Rectangle {
	return rl.Rectangle{
		X:      cam.ViewportPosition.X,
		Y:      cam.ViewportPosition.Y,
		Width:  cam.ViewportSize.X,
		Height: cam.ViewportSize.Y,
	}
}

func withScissor(cam *core.Camera, draw func()) {
	r := viewportRect(cam)
	rl.BeginScissorMode(int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height))
	draw()
	rl.EndScissorMode()
}

// drawImage draws ref at the content origin of cam, or a placeholder over the
// whole viewport when it cannot be loaded.
func (ui *UI) drawImage(cam *core.Camera, ref string) {
	tex, _, err := ui.Textures.Get(ref)
	if err != nil {
		r := viewportRect(cam)
		rl.DrawRectangleRec(r, RGBA(Placeholder, 255))
		rl.DrawText(ref, int32(r.X)+S3, int32(r.Y)+S3, F2, RGBA(White, 200))
		return
	}
	dp := cam.DrawParam(core.Pair{0, 0})
	rl.DrawTextureEx(tex, dp.Screen(), 0, dp.Scale.X, rl.White)
}

func (ui *UI) drawMap() {
	s := ui.Session
	cam, ok := s.Cameras.Lookup(core.MapCamera)
	if !ok {
		return
	}
	cur, err := s.Project.CurrentMap()
	if err != nil {
		return
	}

	hovered, _, hovering := s.HitMarker(core.Vec(rl.GetMousePosition()))

	withScissor(cam, func() {
		ui.drawImage(cam, cur.Image)

		for _, id := range cur.SortedMarkerIDs() {
			mk := cur.Markers[id]
			dp := cam.DrawParam(core.Vec(mk.Position))
			center := dp.Screen()

			if mk.Image != "" {
				if tex, size, err := ui.Textures.Get(mk.Image); err == nil {
					half := rl.Vector2Scale(size, dp.Scale.X/2)
					rl.DrawTextureEx(tex, rl.Vector2Subtract(center, half), 0, dp.Scale.X, rl.White)
					continue
				}
			}

			color := MarkerIdle
			if _, err := s.Project.Resolve(mk.Target); err != nil {
				color = MarkerMissing
			} else if hovering && id == hovered {
				color = MarkerHover
			}
			radius := util.Max(core.MarkerSize*dp.Scale.X, 4)
			rl.DrawCircleV(center, radius, RGBA(color, 220))
			rl.DrawCircleLines(int32(center.X), int32(center.Y), radius, RGBA(Night, 255))
		}
	})
}

func (ui *UI) drawParentInset() {
	s := ui.Session
	parent, ok := s.CurrentParent()
	if !ok {
		return
	}
	cam, ok := s.Cameras.Lookup(core.ParentMapCamera)
	if !ok {
		return
	}

	withScissor(cam, func() {
		rl.DrawRectangleRec(viewportRect(cam), RGBA(Charcoal, 255))
		ui.drawImage(cam, parent.Image)
	})

	border := RGBA(Gray, 255)
	if cam.IsWithin(core.Vec(rl.GetMousePosition())) {
		border = RGBA(Accent, 255)
	}
	rl.DrawRectangleLinesEx(viewportRect(cam), 2, border)
	rl.DrawText(parent.Title(), int32(cam.ViewportPosition.X)+S2, int32(cam.ViewportPosition.Y)+S2, F1, RGBA(White, 220))
}

func (ui *UI) drawNotes() {
	s := ui.Session
	cam, ok := s.Cameras.Lookup(core.TextWindowCamera)
	if !ok {
		return
	}
	rl.DrawRectangleRec(viewportRect(cam), RGBA(Charcoal, 255))

	font := LoadFont(ui.Settings.FontPath, ui.Settings.FontSize)
	size := s.Text.FontSize * cam.Scale

	withScissor(cam, func() {
		for _, line := range s.Text.Lines() {
			pos := cam.DrawParam(core.Pair{0, line.Y}).Screen()
			rl.DrawTextEx(font, line.Text, pos, size, size*LetterSpacing, RGBA(White, 255))
		}

		if s.Editing {
			if p, lh, ok := s.Text.Cursor(); ok {
				top := cam.DrawParam(core.Vec(p)).Screen()
				bottom := cam.DrawParam(core.Pair{p.X, p.Y + lh}).Screen()
				rl.DrawLineEx(top, bottom, 2, RGBA(Accent, 255))
			}
		}
	})

	mode := "E edit   Ctrl+F find   Backspace back"
	if s.Editing {
		mode = "EDITING   Esc done   Ctrl+S save"
	}
	r := viewportRect(cam)
	rl.DrawRectangleLinesEx(r, 1, RGBA(util.Tern(s.Editing, Accent, DarkGray), 255))
	rl.DrawText(mode, int32(r.X)+S2, int32(r.Y+r.Height)-F1-S2, F1, RGBA(Gray, 255))
}

func (ui *UI) drawSearch() {
	q := ui.Search
	if !q.Open {
		return
	}
	cam, ok := ui.Session.Cameras.Lookup(core.MapCamera)
	if !ok {
		return
	}

	width := util.Min(cam.ViewportSize.X-2*S3, 480)
	x := cam.ViewportPosition.X + (cam.ViewportSize.X-width)/2
	y := cam.ViewportPosition.Y + S3
	rowHeight := float32(F2 + S2)
	box := rl.Rectangle{X: x, Y: y, Width: width, Height: rowHeight*float32(len(q.Hits)+1) + S2}

	rl.DrawRectangleRounded(box, 0.05, 8, RGBA(Charcoal, 240))
	rl.DrawRectangleLinesEx(box, 1, RGBA(Gray, 255))
	rl.DrawText("> "+q.Query+"_", int32(x)+S2, int32(y)+S2, F2, RGBA(White, 255))

	for i, hit := range q.Hits {
		rowY := y + rowHeight*float32(i+1) + S1
		if i == q.Selected {
			rl.DrawRectangleRec(rl.Rectangle{X: x + S1, Y: rowY, Width: width - 2*S1, Height: rowHeight}, RGBA(DarkGray, 255))
		}
		rl.DrawText(fmt.Sprintf("%d  %s", hit.ID, hit.Title), int32(x)+S2, int32(rowY)+S1, F2, RGBA(util.Tern(i == q.Selected, Accent, White), 255))
	}
}

func (ui *UI) drawStatus() {
	if ui.statusLeft <= 0 {
		return
	}
	ui.statusLeft--

	color := util.Tern(ui.StatusError, Danger, White)
	alpha := uint8(util.Min(255, ui.statusLeft*4))
	rl.DrawText(ui.Status, S3, int32(ui.Session.Window.Y)-F2-S3, F2, RGBA(color, alpha))
}
