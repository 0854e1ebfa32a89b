package nav

// Key identifies a keyboard input in the viewer's binding table. Names
// follow the DOM KeyboardEvent key values so web and terminal front ends
// share one table.
type Key string

// Keys with default bindings.
const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyEscape     Key = "Escape"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
)

// HandleKey applies a key press to the controller:
//
//	ArrowLeft  -> previous unit
//	ArrowRight -> next unit
//	Escape     -> exit fullscreen and close the table of contents
//	Home / End -> first / last unit
//
// Keys are ignored outside the Ready state. It returns true when the key
// was recognized.
func (c *Controller) HandleKey(k Key) bool {
	if c.state != Ready {
		return false
	}
	switch k {
	case KeyArrowLeft:
		c.Prev()
	case KeyArrowRight:
		c.Next()
	case KeyEscape:
		c.flags.Fullscreen = false
		c.flags.TOCVisible = false
	case KeyHome:
		c.JumpTo(0)
	case KeyEnd:
		c.JumpTo(len(c.units) - 1)
	default:
		return false
	}
	return true
}
