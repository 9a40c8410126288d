package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herdlifecycle "github.com/aretw0/herd/pkg/adapters/lifecycle"
	"github.com/aretw0/herd/pkg/collection"
	"github.com/aretw0/herd/pkg/core"
)

func TestSource_ForwardsCollectionEvents(t *testing.T) {
	c, err := collection.New[core.Record]()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := herdlifecycle.NewSource(c, 4)
	require.NoError(t, src.Start(ctx))
	assert.Error(t, src.Start(ctx), "a source starts once")

	_, err = c.Set(core.Record{"id": "n1"})
	require.NoError(t, err)

	select {
	case e := <-src.Events():
		ev, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, core.EventCreate, ev.Type)
		assert.Equal(t, "n1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for forwarded event")
	}

	cancel()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events channel closes after cancellation")
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}
