package resolver

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
)

// ViewFileSuffix is the naming convention of parsed view files produced by
// the external LookML parser.
const ViewFileSuffix = ".view.lkml.json"

// ViewFileIndex is an in-memory ViewFinder over already-parsed view files.
type ViewFileIndex struct {
	// file path -> view names declared in that file
	files map[string][]string
	paths []string
}

func NewViewFileIndex() *ViewFileIndex {
	return &ViewFileIndex{files: map[string][]string{}}
}

// AddFile registers the views declared by one parsed view file.
func (i *ViewFileIndex) AddFile(path string, viewFile map[string]interface{}) {
	names := make([]string, 0)

	views, _ := viewFile[lookml.ViewsKey].([]interface{})
	for _, raw := range views {
		view, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		if name, ok := view[lookml.NameKey].(string); ok && name != "" {
			names = append(names, name)
		}
	}

	if _, known := i.files[path]; !known {
		i.paths = append(i.paths, path)
		sort.Strings(i.paths)
	}

	i.files[path] = names
}

// FindView searches the files under folder first and falls back to every
// known view file. Paths are scanned in lexical order so resolution is
// deterministic.
func (i *ViewFileIndex) FindView(viewName, folder string) (string, bool) {
	if path, ok := i.findIn(viewName, folder); ok {
		return path, true
	}

	return i.findIn(viewName, "")
}

func (i *ViewFileIndex) findIn(viewName, folder string) (string, bool) {
	for _, path := range i.paths {
		if folder != "" && !strings.HasPrefix(path, strings.TrimSuffix(folder, "/")+"/") {
			continue
		}

		for _, name := range i.files[path] {
			if name == viewName {
				return path, true
			}
		}
	}

	return "", false
}

// DiscoverViewFiles walks the base folder and returns every parsed view file
// underneath it.
func DiscoverViewFiles(fs afero.Fs, root string) ([]string, error) {
	paths := make([]string, 0)

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ViewFileSuffix) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk view files under %s", root)
	}

	sort.Strings(paths)

	return paths, nil
}
