package utils_test

import (
	"testing"

	"github.com/mdnahid/baki_khata_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPin(t *testing.T) {
	hash, err := utils.HashPin("1234")
	require.NoError(t, err)
	require.NotEqual(t, "1234", hash)

	assert.True(t, utils.CheckPinHash("1234", hash))
	assert.False(t, utils.CheckPinHash("9999", hash))
}
