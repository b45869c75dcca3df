package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
)

func mapping(pairs map[string]any) entities.Value {
	return entities.FromGo(pairs)
}

func Test_Merger_Scalar_OverlayWins(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{"temperature": 215, "bed": 60})
	overlay := mapping(map[string]any{"temperature": 210})
	sources := map[string]string{}

	merged := merger.Merge(base, overlay, "child", sources)

	temp, _ := merged.Get("temperature")
	assert.Equal(t, 210, temp.ScalarValue())
	bed, _ := merged.Get("bed")
	assert.Equal(t, 60, bed.ScalarValue(), "untouched base field survives")
}

func Test_Merger_Sequence_ReplacedNotUnioned(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{"temperature": []any{215, 210, 205}})
	overlay := mapping(map[string]any{"temperature": []any{210}})

	merged := merger.Merge(base, overlay, "child", map[string]string{})

	temp, _ := merged.Get("temperature")
	require.Equal(t, entities.KindSequence, temp.Kind())
	require.Len(t, temp.Items(), 1)
	assert.Equal(t, 210, temp.Items()[0].ScalarValue())
}

func Test_Merger_Mapping_DeepMerge(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{
		"retraction": map[string]any{"length": 0.8, "speed": 35},
	})
	overlay := mapping(map[string]any{
		"retraction": map[string]any{"length": 1.2},
	})

	merged := merger.Merge(base, overlay, "child", map[string]string{})

	retraction, ok := merged.Get("retraction")
	require.True(t, ok)
	length, _ := retraction.Get("length")
	assert.Equal(t, 1.2, length.ScalarValue())
	speed, _ := retraction.Get("speed")
	assert.Equal(t, 35, speed.ScalarValue(), "sibling keys merge, not replace")
}

func Test_Merger_KindChange_Replaces(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{
		"cooling": map[string]any{"fan": map[string]any{"min": 35, "max": 100}},
	})
	overlay := mapping(map[string]any{"cooling": "off"})

	sources := map[string]string{
		"cooling.fan.min": "base",
		"cooling.fan.max": "base",
	}
	merged := merger.Merge(base, overlay, "child", sources)

	cooling, _ := merged.Get("cooling")
	assert.Equal(t, entities.KindScalar, cooling.Kind())
	assert.Equal(t, "off", cooling.ScalarValue())

	// The overlay owns the subtree now; stale deep attributions are gone.
	assert.Equal(t, map[string]string{"cooling": "child"}, sources)
}

func Test_Merger_SourceMap_Attribution(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{
		"temperature": 215,
		"retraction":  map[string]any{"length": 0.8, "speed": 35},
	})
	sources := map[string]string{}
	merger.AttributeAll(base, "base-pla", sources)
	require.Equal(t, map[string]string{
		"temperature":       "base-pla",
		"retraction.length": "base-pla",
		"retraction.speed":  "base-pla",
	}, sources)

	overlay := mapping(map[string]any{
		"temperature": 210,
		"retraction":  map[string]any{"length": 1.2},
	})
	merger.Merge(base, overlay, "generic-pla", sources)

	assert.Equal(t, map[string]string{
		"temperature":       "generic-pla",
		"retraction.length": "generic-pla",
		"retraction.speed":  "base-pla",
	}, sources)
}

func Test_Merger_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	merger := NewMerger()

	base := mapping(map[string]any{"nested": map[string]any{"a": 1}})
	overlay := mapping(map[string]any{"nested": map[string]any{"b": 2}})

	merged := merger.Merge(base, overlay, "child", map[string]string{})

	nested, _ := merged.Get("nested")
	nested.Set("c", entities.Scalar(3))

	baseNested, _ := base.Get("nested")
	_, leaked := baseNested.Get("c")
	assert.False(t, leaked, "merge must operate on a deep copy of base")
}
