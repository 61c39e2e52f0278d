package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/bsengine/config"
)

func TestSnowflakeUnique(t *testing.T) {
	g, err := NewGenerator(config.IDGenConfig{MachineID: 7})
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	for range 1000 {
		id := g.Generate()
		assert.Positive(t, id)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestSonyflake(t *testing.T) {
	g, err := NewGenerator(config.IDGenConfig{Type: "sonyflake", MachineID: 3, StartTime: "2024-01-01"})
	require.NoError(t, err)
	a, b := g.Generate(), g.Generate()
	assert.Positive(t, a)
	assert.Greater(t, b, a)

	_, err = NewSonyflakeGenerator(config.IDGenConfig{MachineID: 70000})
	assert.ErrorIs(t, err, ErrInvalidMachineID)
}

func TestNewGeneratorErrors(t *testing.T) {
	_, err := NewGenerator(config.IDGenConfig{Type: "uuid"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = NewGenerator(config.IDGenConfig{StartTime: "yesterday"})
	assert.ErrorIs(t, err, ErrParseTime)

	_, err = NewGenerator(config.IDGenConfig{MachineID: 5000})
	assert.ErrorIs(t, err, ErrCreateNode)
}

func TestFormat(t *testing.T) {
	g, err := NewSnowflakeGenerator(config.IDGenConfig{MachineID: 1})
	require.NoError(t, err)
	id := Format(g, "Q")
	assert.True(t, strings.HasPrefix(id, "Q"))
	assert.Greater(t, len(id), 10)
}
