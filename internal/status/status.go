package status

// Status is the visual state of a node in the treemap.
type Status string

const (
	Grey  Status = "grey"
	Amber Status = "amber"
	Green Status = "green"
	Red   Status = "red"
)

// Aggregate folds child statuses into a parent status. Red dominates, green
// needs every child green, and any amber child makes the parent amber.
// Everything else, including no children, is grey.
func Aggregate(children []Status) Status {
	if len(children) == 0 {
		return Grey
	}

	allGreen := true
	anyAmber := false
	for _, s := range children {
		switch s {
		case Red:
			return Red
		case Amber:
			anyAmber = true
		}
		if s != Green {
			allGreen = false
		}
	}

	switch {
	case allGreen:
		return Green
	case anyAmber:
		return Amber
	default:
		return Grey
	}
}
