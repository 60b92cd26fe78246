package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient("http://localhost:6379")
	assert.Error(t, err)
}

func TestPing_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c, err := NewClient("redis://" + addr)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.Ping(context.Background()))
}
