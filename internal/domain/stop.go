package domain

// Stop is a single delivery destination. Stops are loaded once per run at the
// ingestion boundary and treated as immutable afterwards.
type Stop struct {
	ID          string
	Zone        string
	Address     string
	Coord       Coordinates
	ParcelCount int
}
