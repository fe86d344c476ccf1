package schemas

// -- Browser Interaction Schemas --

// ElementGeometry describes the on-screen box of an element.
type ElementGeometry struct {
	// Vertices are the content quad corners as [x1,y1,x2,y2,x3,y3,x4,y4].
	Vertices []float64 `json:"vertices"`
	Width    int64     `json:"width"`
	Height   int64     `json:"height"`
	// TagName (e.g., "INPUT", "BUTTON") used for behavioral biasing.
	TagName string `json:"tagName"`
	// Type (e.g., "text", "password", "checkbox") used for behavioral biasing.
	Type string `json:"type,omitempty"`
}

// MouseEventType defines the type of a mouse event.
type MouseEventType string

const (
	MouseMove    MouseEventType = "mouseMoved"
	MousePress   MouseEventType = "mousePressed"
	MouseRelease MouseEventType = "mouseReleased"
	MouseWheel   MouseEventType = "mouseWheel"
)

// MouseButton defines the mouse button being pressed.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// MouseEventData encapsulates all data for a single synthetic mouse event.
type MouseEventData struct {
	Type       MouseEventType `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Button     MouseButton    `json:"button"`
	Buttons    int64          `json:"buttons"`
	ClickCount int            `json:"clickCount"`
	DeltaX     float64        `json:"deltaX"`
	DeltaY     float64        `json:"deltaY"`
}

// KeyModifier represents keyboard modifiers (Ctrl, Alt, Shift, Meta).
// Values correspond directly to the CDP input.DispatchKeyEvent bitfield.
type KeyModifier int

const (
	ModNone  KeyModifier = 0
	ModAlt   KeyModifier = 1
	ModCtrl  KeyModifier = 2
	ModMeta  KeyModifier = 4
	ModShift KeyModifier = 8
)

// KeyEventData describes a structured key press (a key plus modifiers).
// The page adapter is responsible for the full keyDown/keyUp sequence.
type KeyEventData struct {
	// Key is the primary key pressed (e.g., "a", "Enter", "Tab"), matching
	// the string the underlying dispatcher expects.
	Key string `json:"key"`
	// Modifiers is a bitmask of active modifiers.
	Modifiers KeyModifier `json:"modifiers"`
}
