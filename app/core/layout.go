package core

// Screen layout, as fractions of the window size.
const (
	// MapPanelWidth is the share of the window width given to the main map.
	MapPanelWidth = 0.7

	// The parent-map inset sits above the text panel on the right.
	ParentInsetHeight = 0.3

	TextBoxWidth  = 0.3
	TextBoxHeight = 0.7

	// The text content never shrinks below this box, so short notes don't
	// get blown up to fill the panel.
	MinTextBoxWidth  = 0.26
	MinTextBoxHeight = 0.7

	// Text wraps at this fraction of the panel width.
	TextWrapRatio = 0.9
)

// Viewport is a screen rectangle.
type Viewport struct {
	Position V2
	Size     V2
}

// MapViewport is the main map area on the left.
func MapViewport(window V2) Viewport {
	return Viewport{
		Size: xy(window.X*MapPanelWidth, window.Y),
	}
}

// ParentViewport is the parent-map inset in the top-right corner.
func ParentViewport(window V2) Viewport {
	return Viewport{
		Position: xy(window.X*MapPanelWidth, 0),
		Size:     xy(window.X*(1-MapPanelWidth), window.Y*ParentInsetHeight),
	}
}

// TextViewport is the notes panel below the parent inset.
func TextViewport(window V2) Viewport {
	return Viewport{
		Position: xy(window.X*(1-TextBoxWidth), window.Y*(1-TextBoxHeight)),
		Size:     xy(window.X*TextBoxWidth, window.Y*TextBoxHeight),
	}
}

func MinTextBox(window V2) V2 {
	return xy(window.X*MinTextBoxWidth, window.Y*MinTextBoxHeight)
}

func TextBoundingWidth(window V2) float32 {
	return window.X * TextBoxWidth * TextWrapRatio
}
