package templating

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
)

type countingTransformer struct {
	calls int32
}

func (t *countingTransformer) Transform(view lookml.View) lookml.View {
	atomic.AddInt32(&t.calls, 1)
	return lookml.View{"touched": true}
}

func TestTransformedView_Memoizes(t *testing.T) {
	t.Parallel()

	transformer := &countingTransformer{}
	view := NewTransformedView([]Transformer{transformer}, lookml.View{"name": "orders"})

	first := view.View()
	second := view.View()

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&transformer.calls))
	assert.Equal(t, true, first["touched"])
}

func TestTransformedView_KeepsOriginalTopLevelMap(t *testing.T) {
	t.Parallel()

	original := lookml.View{"name": "orders"}
	transformed := NewTransformedView([]Transformer{&countingTransformer{}}, original).View()

	assert.Equal(t, true, transformed["touched"])
	assert.NotContains(t, original, "touched")
}

func TestProcessViewFile(t *testing.T) {
	t.Parallel()

	viewFile := map[string]interface{}{
		"views": []interface{}{
			map[string]interface{}{
				"name": "orders",
				"derived_table": map[string]interface{}{
					"sql": "id, amount",
				},
			},
		},
	}

	ProcessViewFile(viewFile, []Transformer{NewIncompleteSQLTransformer()})

	views := viewFile["views"].([]interface{})
	view := views[0].(map[string]interface{})
	dt := view[lookml.DerivedTableKey].(map[string]interface{})

	require.Equal(t, "SELECT id, amount FROM orders", dt[lookml.TransformedSQLKey])
	require.Equal(t, "id, amount", dt[lookml.SQLKey])
}

func TestProcessViewFile_NoViews(t *testing.T) {
	t.Parallel()

	viewFile := map[string]interface{}{"explores": []interface{}{}}
	ProcessViewFile(viewFile, []Transformer{NewIncompleteSQLTransformer()})

	assert.Equal(t, map[string]interface{}{"explores": []interface{}{}}, viewFile)
}
