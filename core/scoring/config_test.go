package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsValid(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
}

func TestDecodeWeightsYAML(t *testing.T) {
	in := `
availability: 0.5
proximity: 0.2
fuel: 0.1
utilization: 0.1
maintenance: 0.05
class: 0.05
`
	w, err := DecodeWeights(strings.NewReader(in), "yaml")
	require.NoError(t, err)
	assert.Equal(t, 0.5, w.Availability)
}

func TestDecodeWeightsJSON(t *testing.T) {
	in := `{"availability":0.35,"proximity":0.2,"fuel":0.15,"utilization":0.15,"maintenance":0.1,"class":0.05}`
	w, err := DecodeWeights(strings.NewReader(in), "json")
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), w)
}

func TestDecodeWeightsRejectsBadSum(t *testing.T) {
	in := `{"availability":0.9,"proximity":0.9,"fuel":0,"utilization":0,"maintenance":0,"class":0}`
	_, err := DecodeWeights(strings.NewReader(in), "json")
	assert.Error(t, err)
}

func TestDecodeWeightsRejectsNegative(t *testing.T) {
	in := `{"availability":1.1,"proximity":-0.1,"fuel":0,"utilization":0,"maintenance":0,"class":0}`
	_, err := DecodeWeights(strings.NewReader(in), "json")
	assert.Error(t, err)
}

func TestDecodeWeightsUnknownFormat(t *testing.T) {
	_, err := DecodeWeights(strings.NewReader("{}"), "toml")
	assert.Error(t, err)
}
