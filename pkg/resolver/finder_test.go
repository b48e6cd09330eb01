package resolver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFileWith(names ...string) map[string]interface{} {
	views := make([]interface{}, 0, len(names))
	for _, name := range names {
		views = append(views, map[string]interface{}{"name": name})
	}

	return map[string]interface{}{"views": views}
}

func TestViewFileIndex_FindView(t *testing.T) {
	t.Parallel()

	index := NewViewFileIndex()
	index.AddFile("project/sales/orders.view.lkml.json", viewFileWith("orders", "order_items"))
	index.AddFile("project/finance/invoices.view.lkml.json", viewFileWith("invoices"))

	t.Run("finds a view under the given folder", func(t *testing.T) {
		t.Parallel()

		path, ok := index.FindView("orders", "project/sales")
		require.True(t, ok)
		assert.Equal(t, "project/sales/orders.view.lkml.json", path)
	})

	t.Run("falls back to all known files", func(t *testing.T) {
		t.Parallel()

		path, ok := index.FindView("invoices", "project/sales")
		require.True(t, ok)
		assert.Equal(t, "project/finance/invoices.view.lkml.json", path)
	})

	t.Run("a name declared nowhere is a legitimate miss", func(t *testing.T) {
		t.Parallel()

		_, ok := index.FindView("ghost", "project/sales")
		assert.False(t, ok)
	})
}

func TestDiscoverViewFiles(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "project/sales/orders.view.lkml.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "project/finance/invoices.view.lkml.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "project/readme.md", []byte("x"), 0o644))

	paths, err := DiscoverViewFiles(fs, "project")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"project/finance/invoices.view.lkml.json",
		"project/sales/orders.view.lkml.json",
	}, paths)
}
