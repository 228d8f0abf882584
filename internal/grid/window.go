package grid

// WindowSize is the number of page buttons shown at once.
const WindowSize = 5

// Window returns the page numbers to show: all pages when they fit, otherwise a run of
// WindowSize pages centred on current and clamped at both ends of the catalog.
func Window(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	n := WindowSize
	if totalPages < n {
		n = totalPages
	}

	var first int
	switch {
	case totalPages <= WindowSize:
		first = 1
	case current <= 3:
		first = 1
	case current >= totalPages-2:
		first = totalPages - 4
	default:
		first = current - 2
	}

	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}

// State is what the grid shows instead of, or as, its product list.
type State string

const (
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// RenderState picks the grid's single visible state, in priority order.
func RenderState(loading bool, count int) State {
	switch {
	case loading:
		return StateLoading
	case count == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}
