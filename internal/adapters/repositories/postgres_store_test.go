package repositories

import (
	"testing"

	"delivery-route-optimizer/internal/ports"
)

func TestPostgresStopRepositorySatisfiesPort(t *testing.T) {
	// The server selects this repository when DATABASE_URL is set; it must
	// stay assignable to the port the router is wired with.
	var repo ports.StopRepository = NewPostgresStopRepository(nil)
	if repo == nil {
		t.Fatal("expected a repository")
	}
}
