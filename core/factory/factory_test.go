package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry[string]()
	require.NoError(t, r.Register("upper", func(conf map[string]any) (string, error) {
		return conf["value"].(string), nil
	}))
	out, err := r.Create(ModuleConfig{Type: "upper", Conf: map[string]any{"value": "ok"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry[int]()
	require.NoError(t, r.Register("a", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, r.Register("a", func(map[string]any) (int, error) { return 2, nil }))
}

func TestRegistry_UnknownType(t *testing.T) {
	r := NewRegistry[int]()
	_, err := r.Create(ModuleConfig{Type: "missing"})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var out struct {
		Port string `json:"port"`
	}
	require.NoError(t, Decode(map[string]any{"port": "9090"}, &out))
	assert.Equal(t, "9090", out.Port)
}
