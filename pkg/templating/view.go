package templating

import (
	"sync"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
)

// TransformedView wraps a view with the transformer chain and memoizes the
// merged result: the stages run once on first access, repeated access returns
// the cached tree.
type TransformedView struct {
	transformers []Transformer
	view         lookml.View

	once        sync.Once
	transformed lookml.View
}

func NewTransformedView(transformers []Transformer, view lookml.View) *TransformedView {
	return &TransformedView{
		transformers: transformers,
		view:         view,
	}
}

func (t *TransformedView) View() lookml.View {
	t.once.Do(func() {
		merged := make(lookml.View, len(t.view))
		for key, value := range t.view {
			merged[key] = value
		}

		for _, transformer := range t.transformers {
			merged = Merge(merged, transformer.Transform(merged))
		}

		t.transformed = merged
	})

	return t.transformed
}

// ProcessViewFile runs the transformer chain over every view in a parsed view
// file mapping, replacing each entry with its transformed tree. Files without
// views are left untouched.
func ProcessViewFile(viewFile map[string]interface{}, transformers []Transformer) {
	views, ok := viewFile[lookml.ViewsKey].([]interface{})
	if !ok {
		return
	}

	for i, raw := range views {
		view, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		views[i] = map[string]interface{}(NewTransformedView(transformers, view).View())
	}
}
