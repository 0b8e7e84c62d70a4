package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

func TestPubsubMessage_ClaveDeOrdenEsElHolder(t *testing.T) {
	ev := &entity.LedgerEvent{
		ID:        "e7",
		Holder:    entity.HolderRef{Type: entity.HolderEngineer, ID: "eng-x"},
		SKUCodeID: "SKU-1",
		Bucket:    entity.BucketFaulty,
		Delta:     2,
		Reason:    entity.ReasonTransferReceive,
	}
	msg, err := pubsubMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, "eng-x", msg.OrderingKey)
	assert.Equal(t, "eng-x", msg.Attributes["holder_id"])
	assert.Equal(t, string(entity.ReasonTransferReceive), msg.Attributes["reason"])

	var body Message
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, "e7", body.ID)
	assert.Equal(t, int64(2), body.Delta)
}
