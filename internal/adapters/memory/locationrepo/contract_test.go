package locationrepo

import (
	"testing"

	"github.com/liftlog/liftlog-api/internal/adapters/contracttest"
	locationrepoport "github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
)

func TestContract_LocationRepo(t *testing.T) {
	contracttest.RunLocationRepo(t, func(t *testing.T) (locationrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
