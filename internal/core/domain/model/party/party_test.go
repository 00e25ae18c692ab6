package party_test

import (
	"testing"

	"orderwatch/internal/core/domain/model/party"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	c, err := party.NewCustomer(uuid.New(), " Maria Gomez ", "")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "Maria Gomez", c.Name())

	assert.True(t, c.RefreshPhone("+58 412 0000000"))
	assert.False(t, c.RefreshPhone(""))
	assert.False(t, c.RefreshPhone("+58 412 0000000"))
	assert.Equal(t, "+58 412 0000000", c.Phone())

	_, err = party.NewCustomer(uuid.New(), "", "")
	require.Error(t, err)
}

func TestNewCourier(t *testing.T) {
	c, err := party.NewCourier(uuid.New(), "Jose")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "Jose", c.Name())

	_, err = party.NewCourier(uuid.Nil, "Jose")
	require.Error(t, err)

	var zero *party.Courier
	require.Error(t, zero.Validate())
}
