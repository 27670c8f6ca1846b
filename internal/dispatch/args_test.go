package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsString(t *testing.T) {
	args := Args{"name": "value"}
	assert.Equal(t, "value", args.String("name", "def"))
	assert.Equal(t, "def", args.String("missing", "def"))
	assert.Equal(t, "def", Args{"name": ""}.String("name", "def"))
}

func TestArgsRequireString(t *testing.T) {
	_, err := Args{}.RequireString("query")
	require.Error(t, err)
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "query is required")

	v, err := Args{"query": "breaking"}.RequireString("query")
	require.NoError(t, err)
	assert.Equal(t, "breaking", v)
}

func TestArgsIntCoercion(t *testing.T) {
	assert.Equal(t, 7, Args{"n": float64(7)}.Int("n", 1))
	assert.Equal(t, 7, Args{"n": "7"}.Int("n", 1))
	assert.Equal(t, 1, Args{"n": "seven"}.Int("n", 1))
	assert.Equal(t, 1, Args{}.Int("n", 1))
}

func TestArgsRequireInt64(t *testing.T) {
	id, err := Args{"id": float64(42)}.RequireInt64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = Args{"id": "42"}.RequireInt64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = Args{}.RequireInt64("id")
	require.Error(t, err)
}

func TestArgsEnum(t *testing.T) {
	v, err := Args{}.Enum("sort", "title", "size", "title")
	require.NoError(t, err)
	assert.Equal(t, "title", v)

	v, err = Args{"sort": "size"}.Enum("sort", "title", "size", "title")
	require.NoError(t, err)
	assert.Equal(t, "size", v)

	_, err = Args{"sort": "bogus"}.Enum("sort", "title", "size", "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestArgsBool(t *testing.T) {
	assert.True(t, Args{"b": true}.Bool("b", false))
	assert.True(t, Args{"b": "true"}.Bool("b", false))
	assert.False(t, Args{}.Bool("b", false))
}

func TestArgsInt64Slice(t *testing.T) {
	ids, err := Args{"ids": []any{float64(1), float64(2)}}.Int64Slice("ids")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	ids, err = Args{}.Int64Slice("ids")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = Args{"ids": "1,2"}.Int64Slice("ids")
	require.Error(t, err)
}
