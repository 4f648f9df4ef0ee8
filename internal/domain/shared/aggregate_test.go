package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type koiTagged struct {
	EventHeader
	Tag string `json:"tag"`
}

func TestBaseAggregateRoot_Touch(t *testing.T) {
	a := NewBaseAggregateRoot()
	require.Equal(t, 1, a.Version)
	created := a.UpdatedAt

	time.Sleep(time.Millisecond)
	a.Touch()

	assert.Equal(t, 2, a.Version)
	assert.True(t, a.UpdatedAt.After(created))
	assert.Equal(t, created, a.CreatedAt)
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	a := NewBaseAggregateRoot()
	a.Record(&koiTagged{EventHeader: NewEventHeader("koi.tagged", "Koi", a.ID), Tag: "K-1"})

	assert.Len(t, a.PendingEvents(), 1)
	assert.Len(t, a.PendingEvents(), 1, "peeking does not drain")

	events := a.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "koi.tagged", events[0].EventType())
	assert.Equal(t, a.ID, events[0].AggregateID())
	assert.Equal(t, "Koi", events[0].AggregateType())
	assert.NotEqual(t, uuid.Nil, events[0].EventID())
	assert.Empty(t, a.PullEvents())
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
}
