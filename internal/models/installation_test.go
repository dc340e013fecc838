package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/brianyyz/ShareRidesV2Server/internal/models"
)

func TestChannelList(t *testing.T) {
	inst := models.Installation{Channels: datatypes.JSON(`["silentContent","newRide"]`)}

	assert.Equal(t, []string{"silentContent", "newRide"}, inst.ChannelList())
}

func TestChannelList_EmptyAndBroken(t *testing.T) {
	assert.Empty(t, (&models.Installation{}).ChannelList())

	broken := models.Installation{Channels: datatypes.JSON(`not json`)}
	assert.Empty(t, broken.ChannelList())
}

func TestAddChannel(t *testing.T) {
	inst := models.Installation{Channels: datatypes.JSON(`["admin"]`)}

	assert.True(t, inst.AddChannel(models.ChannelNewRide))
	assert.Equal(t, []string{"admin", "newRide"}, inst.ChannelList())

	// already subscribed: no change reported
	assert.False(t, inst.AddChannel(models.ChannelNewRide))
	assert.Equal(t, []string{"admin", "newRide"}, inst.ChannelList())
}

func TestAddChannel_FromEmpty(t *testing.T) {
	var inst models.Installation

	assert.True(t, inst.AddChannel(models.ChannelUserMessages))
	assert.Equal(t, []string{"userMessages"}, inst.ChannelList())
}
