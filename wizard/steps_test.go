package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsOrdinalRoundTrip(t *testing.T) {
	for _, steps := range []Steps{CreateSteps, ImportSteps} {
		for k := 1; k <= steps.Len(); k++ {
			step, ok := steps.At(k)
			require.True(t, ok)
			n, ok := steps.Ordinal(step)
			require.True(t, ok)
			assert.Equal(t, k, n, "step %q", step)
		}
	}
}

func TestStepsUnknown(t *testing.T) {
	_, ok := CreateSteps.Ordinal(StepEnterKeys)
	assert.False(t, ok)

	_, ok = CreateSteps.At(0)
	assert.False(t, ok)
	_, ok = CreateSteps.At(CreateSteps.Len() + 1)
	assert.False(t, ok)
}

func TestNewStepsRejectsBadLists(t *testing.T) {
	_, err := NewSteps()
	assert.ErrorIs(t, err, ErrNoSteps)

	_, err = NewSteps("a", "b", "a")
	assert.Error(t, err)

	_, err = NewSteps("a", "")
	assert.Error(t, err)
}

func TestStepsFirstLast(t *testing.T) {
	assert.Equal(t, StepGenerate, CreateSteps.First())
	assert.Equal(t, StepVerify, CreateSteps.Last())
	assert.Equal(t, StepEnterKeys, ImportSteps.First())
	assert.Equal(t, StepSecure, ImportSteps.Last())

	assert.True(t, ImportSteps.IsLast(StepSecure))
	assert.False(t, CreateSteps.IsLast(StepSecure))
	assert.Equal(t, []Step{StepEnterKeys, StepVerify, StepSecure}, ImportSteps.Names())
}
