package snap

// Key is the set of navigation keys the controller classifies.
type Key int

const (
	KeyArrowDown Key = iota
	KeyArrowUp
	KeyPageDown
	KeyPageUp
	KeySpace
	KeyHome
	KeyEnd
)

func (k Key) String() string {
	switch k {
	case KeyArrowDown:
		return "arrow-down"
	case KeyArrowUp:
		return "arrow-up"
	case KeyPageDown:
		return "page-down"
	case KeyPageUp:
		return "page-up"
	case KeySpace:
		return "space"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	default:
		return "unknown"
	}
}
