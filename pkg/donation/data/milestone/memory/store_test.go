package memory

import (
	"testing"

	"github.com/solfund/solfund-server/pkg/donation/data/milestone/tests"
)

func TestMilestoneMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
