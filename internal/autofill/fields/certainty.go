package fields

// Certainty grades how confident the classifier is that a field plays a
// given role (username or password). The four levels are totally ordered;
// comparisons between them use plain integer ordering.
type Certainty int

const (
	Impossible Certainty = iota
	Possible
	Likely
	Certain
)

// AtLeast reports whether c is at or above the given level.
func (c Certainty) AtLeast(level Certainty) bool { return c >= level }

func (c Certainty) String() string {
	switch c {
	case Impossible:
		return "impossible"
	case Possible:
		return "possible"
	case Likely:
		return "likely"
	case Certain:
		return "certain"
	default:
		return "unknown"
	}
}
