package dashboard

// ViewKind selects what the presentation layer shows.
type ViewKind int

const (
	// ViewSkeleton is the first load, before any result.
	ViewSkeleton ViewKind = iota
	// ViewError is a failure with no data ever obtained.
	ViewError
	// ViewEmpty is a finished load with neither data nor error.
	ViewEmpty
	// ViewContent shows a snapshot, possibly stale.
	ViewContent
)

func (k ViewKind) String() string {
	switch k {
	case ViewSkeleton:
		return "skeleton"
	case ViewError:
		return "error"
	case ViewEmpty:
		return "empty"
	case ViewContent:
		return "content"
	default:
		return "unknown"
	}
}

// View is the presentation decision for a State.
type View struct {
	Kind ViewKind
	// Spinner overlays content while a refresh is in flight.
	Spinner bool
	// StaleBanner overlays content after a failed refresh.
	StaleBanner bool
	Message     string
}

// Derive picks the view for s. It has no side effects.
func Derive(s State) View {
	switch {
	case s.HasData():
		return View{
			Kind:        ViewContent,
			Spinner:     s.Loading,
			StaleBanner: s.Err != "",
			Message:     s.Err,
		}
	case s.Err != "":
		return View{Kind: ViewError, Message: s.Err}
	case s.Loading:
		return View{Kind: ViewSkeleton}
	default:
		return View{Kind: ViewEmpty}
	}
}
