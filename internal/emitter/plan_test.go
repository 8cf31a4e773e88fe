package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_PerInput(t *testing.T) {
	sets, err := Plan("", []string{"a.bin", "img/logo.png"})
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "a.bin", sets[0].Base)
	assert.Equal(t, "a.bin.h", sets[0].HeaderPath())
	assert.Equal(t, "img/logo.png", sets[1].Base)
	assert.Equal(t, []string{"img/logo.png"}, sets[1].Inputs)
}

func TestPlan_Combined(t *testing.T) {
	inputs := []string{"x.bin", "y.bin"}
	sets, err := Plan("combo", inputs)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.Equal(t, "combo.h", sets[0].HeaderPath())
	assert.Equal(t, []string{"x.bin", "y.bin"}, sets[0].Inputs)

	inputs[0] = "changed"
	assert.Equal(t, "x.bin", sets[0].Inputs[0], "plan should not alias the caller's slice")
}

func TestPlan_NoInputs(t *testing.T) {
	_, err := Plan("combo", nil)
	assert.ErrorIs(t, err, ErrNoInputs)
}
