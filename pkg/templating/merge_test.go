package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  map[string]interface{}
		src  map[string]interface{}
		want map[string]interface{}
	}{
		{
			name: "empty update is a no-op",
			dst:  map[string]interface{}{"a": 1},
			src:  map[string]interface{}{},
			want: map[string]interface{}{"a": 1},
		},
		{
			name: "nested mappings merge key by key",
			dst: map[string]interface{}{
				"derived_table": map[string]interface{}{"sql": "original"},
			},
			src: map[string]interface{}{
				"derived_table": map[string]interface{}{"datahub_transformed_sql": "transformed"},
			},
			want: map[string]interface{}{
				"derived_table": map[string]interface{}{
					"sql":                     "original",
					"datahub_transformed_sql": "transformed",
				},
			},
		},
		{
			name: "scalar keys from the update win",
			dst:  map[string]interface{}{"a": "old", "b": "kept"},
			src:  map[string]interface{}{"a": "new"},
			want: map[string]interface{}{"a": "new", "b": "kept"},
		},
		{
			name: "scalar replaces mapping when the update says so",
			dst:  map[string]interface{}{"a": map[string]interface{}{"x": 1}},
			src:  map[string]interface{}{"a": "scalar"},
			want: map[string]interface{}{"a": "scalar"},
		},
		{
			name: "deeply nested updates reach their leaf",
			dst: map[string]interface{}{
				"a": map[string]interface{}{
					"b": map[string]interface{}{"c": 1},
				},
			},
			src: map[string]interface{}{
				"a": map[string]interface{}{
					"b": map[string]interface{}{"d": 2},
				},
			},
			want: map[string]interface{}{
				"a": map[string]interface{}{
					"b": map[string]interface{}{"c": 1, "d": 2},
				},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Merge(tt.dst, tt.src))
		})
	}
}
