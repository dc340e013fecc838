package push_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brianyyz/ShareRidesV2Server/internal/push"
)

func TestPayloadData(t *testing.T) {
	p := push.Payload{
		Key:     push.KeyNewRide,
		Alert:   "New Ride from A to B",
		Badge:   1,
		Refresh: "Rides",
	}

	data := p.Data()

	assert.Equal(t, "1", data["key"])
	assert.Equal(t, "New Ride from A to B", data["alert"])
	assert.Equal(t, 1, data["badge"])
	assert.Equal(t, "Rides", data["refresh"])
	assert.NotContains(t, data, "content-available")
}

func TestPayloadData_OmitsZeroFields(t *testing.T) {
	data := push.Payload{Key: push.KeyAdmin}.Data()

	assert.Equal(t, map[string]interface{}{"key": "99"}, data)
}

func TestSilent(t *testing.T) {
	data := push.Silent("Requests").Data()

	assert.Equal(t, "Requests", data["refresh"])
	assert.Equal(t, 1, data["content-available"])
	assert.NotContains(t, data, "key")
	assert.NotContains(t, data, "alert")
	assert.NotContains(t, data, "badge")
}
