package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codecEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
	Qty  int    `json:"qty"`
}

func newCodecEvent(note string, qty int) *codecEvent {
	return &codecEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("stock.opname.completed", "StockItem", uuid.New()),
		Note:            note,
		Qty:             qty,
	}
}

func TestEventSerializer_Register(t *testing.T) {
	s := NewEventSerializer()
	s.Register("stock.opname.completed", &codecEvent{})

	assert.True(t, s.IsRegistered("stock.opname.completed"))
	assert.False(t, s.IsRegistered("order.shipped"))
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	s := NewEventSerializer()
	s.Register("stock.opname.completed", &codecEvent{})
	s.Register("stock.movement.recorded", &codecEvent{})

	types := s.RegisteredTypes()
	assert.Len(t, types, 2)
	assert.Contains(t, types, "stock.opname.completed")
	assert.Contains(t, types, "stock.movement.recorded")
}

func TestEventSerializer_Serialize(t *testing.T) {
	s := NewEventSerializer()

	data, err := s.Serialize(newCodecEvent("cycle count", 42))

	require.NoError(t, err)
	assert.Contains(t, string(data), `"note":"cycle count"`)
	assert.Contains(t, string(data), `"qty":42`)
}

func TestEventSerializer_Deserialize(t *testing.T) {
	s := NewEventSerializer()
	s.Register("stock.opname.completed", &codecEvent{})

	original := newCodecEvent("cycle count", 7)
	data, err := s.Serialize(original)
	require.NoError(t, err)

	got, err := s.Deserialize("stock.opname.completed", data)
	require.NoError(t, err)

	decoded, ok := got.(*codecEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventType(), decoded.EventType())
	assert.Equal(t, original.Note, decoded.Note)
	assert.Equal(t, original.Qty, decoded.Qty)
}

func TestEventSerializer_Deserialize_Errors(t *testing.T) {
	s := NewEventSerializer()
	s.Register("stock.opname.completed", &codecEvent{})

	t.Run("unregistered type", func(t *testing.T) {
		_, err := s.Deserialize("order.shipped", []byte(`{}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown event type")
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := s.Deserialize("stock.opname.completed", []byte(`not json`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal")
	})
}

func TestEventSerializer_RoundTrip_PreservesEnvelope(t *testing.T) {
	s := NewEventSerializer()
	s.Register("stock.opname.completed", &codecEvent{})

	original := &codecEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        uuid.New(),
			Type:      "stock.opname.completed",
			Timestamp: time.Now().Truncate(time.Second),
			AggID:     uuid.New(),
			AggType:   "StockItem",
		},
		Note: "annual count at depot",
		Qty:  99,
	}

	data, err := s.Serialize(original)
	require.NoError(t, err)

	got, err := s.Deserialize("stock.opname.completed", data)
	require.NoError(t, err)

	decoded := got.(*codecEvent)
	assert.Equal(t, original.EventID(), decoded.EventID())
	assert.Equal(t, original.AggregateID(), decoded.AggregateID())
	assert.Equal(t, original.AggregateType(), decoded.AggregateType())
	assert.Equal(t, original.Note, decoded.Note)
	assert.Equal(t, original.Qty, decoded.Qty)
}
