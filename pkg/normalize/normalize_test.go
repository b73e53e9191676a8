package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	assert.False(t, Bool(nil).Valid)

	v := true
	got := Bool(&v)
	assert.True(t, got.Valid)
	assert.True(t, got.Bool)

	v = false
	got = Bool(&v)
	assert.True(t, got.Valid)
	assert.False(t, got.Bool)
}

func TestString(t *testing.T) {
	assert.False(t, String("").Valid)

	got := String("roastery")
	assert.True(t, got.Valid)
	assert.Equal(t, "roastery", got.String)
}

func TestInt(t *testing.T) {
	assert.False(t, Int(nil).Valid)

	v := 2014
	got := Int(&v)
	assert.True(t, got.Valid)
	assert.Equal(t, int64(2014), got.Int64)
}

func TestFloat(t *testing.T) {
	assert.False(t, Float(nil).Valid)

	v := 52.52
	got := Float(&v)
	assert.True(t, got.Valid)
	assert.Equal(t, 52.52, got.Float64)
}

func TestJSONText(t *testing.T) {
	t.Run("absent stays null", func(t *testing.T) {
		assert.False(t, JSONText(nil).Valid)
		assert.False(t, JSONText(json.RawMessage(``)).Valid)
		assert.False(t, JSONText(json.RawMessage(`null`)).Valid)
	})

	t.Run("object is compacted", func(t *testing.T) {
		got := JSONText(json.RawMessage(`{ "mon": "08:00-18:00" }`))
		assert.True(t, got.Valid)
		assert.Equal(t, `{"mon":"08:00-18:00"}`, got.String)
	})

	t.Run("array is compacted", func(t *testing.T) {
		got := JSONText(json.RawMessage(`[ "v60", "aeropress" ]`))
		assert.True(t, got.Valid)
		assert.Equal(t, `["v60","aeropress"]`, got.String)
	})

	t.Run("json string passes through unquoted", func(t *testing.T) {
		got := JSONText(json.RawMessage(`"already serialized"`))
		assert.True(t, got.Valid)
		assert.Equal(t, "already serialized", got.String)
	})

	t.Run("invalid json is stored raw", func(t *testing.T) {
		got := JSONText(json.RawMessage(`not-json`))
		assert.True(t, got.Valid)
		assert.Equal(t, "not-json", got.String)
	})
}
