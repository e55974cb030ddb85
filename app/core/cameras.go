package core

// CameraName identifies one of the session's viewports.
type CameraName int

const (
	MapCamera CameraName = iota
	ParentMapCamera
	TextWindowCamera
)

func (n CameraName) String() string {
	switch n {
	case MapCamera:
		return "Map"
	case ParentMapCamera:
		return "ParentMap"
	case TextWindowCamera:
		return "TextWindow"
	default:
		return "Unknown"
	}
}

// CameraManager owns the named cameras. Cameras are created on first Get and
// live as long as the manager.
type CameraManager struct {
	cameras map[CameraName]*Camera
}

func NewCameraManager() *CameraManager {
	return &CameraManager{cameras: make(map[CameraName]*Camera)}
}

// Get returns the named camera, creating a default one if needed.
func (m *CameraManager) Get(name CameraName) *Camera {
	if c, ok := m.cameras[name]; ok {
		return c
	}
	c := NewCamera()
	m.cameras[name] = c
	return c
}

func (m *CameraManager) Lookup(name CameraName) (*Camera, bool) {
	c, ok := m.cameras[name]
	return c, ok
}

// Set replaces the named camera wholesale.
func (m *CameraManager) Set(name CameraName, c Camera) {
	m.cameras[name] = &c
}

// The accessors below fall back to the identity transform when the camera
// has not been created yet, so early frames can draw without one.

func (m *CameraManager) DrawParam(name CameraName, p Position) DrawParam {
	if c, ok := m.cameras[name]; ok {
		return c.DrawParam(p)
	}
	return IdentityDrawParam(p)
}

func (m *CameraManager) ForwardTransform(name CameraName, p Position) V2 {
	if c, ok := m.cameras[name]; ok {
		return c.ForwardTransform(p)
	}
	return Pos(p)
}

func (m *CameraManager) InverseTransform(name CameraName, p Position) V2 {
	if c, ok := m.cameras[name]; ok {
		return c.InverseTransform(p)
	}
	return Pos(p)
}

func (m *CameraManager) IsWithin(name CameraName, p Position) bool {
	if c, ok := m.cameras[name]; ok {
		return c.IsWithin(p)
	}
	return false
}
