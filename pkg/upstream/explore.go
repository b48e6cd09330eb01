package upstream

import (
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
	"github.com/sid-acryl/lookml-lineage/pkg/urn"
)

// exploreColumn is one column spec of an explore_source block. Field is the
// optional alias inside the explore's own namespace.
type exploreColumn struct {
	Name  string `mapstructure:"name"`
	Field string `mapstructure:"field"`
}

// exploreDerivedUpstream handles views whose derived table references an
// explore aggregate instead of raw SQL. The explore is the single upstream
// dataset; columns map through the explore's declared column specs.
type exploreDerivedUpstream struct {
	params Params

	datasetsOnce sync.Once
	datasetURNs  []string

	mappingOnce sync.Once
	mapping     map[string]exploreColumn
}

func (u *exploreDerivedUpstream) Kind() lookml.BindingKind { return lookml.BindingExploreDerived }

func (u *exploreDerivedUpstream) UpstreamDatasets() []string {
	u.datasetsOnce.Do(func() {
		u.datasetURNs = []string{}

		// The current view was registered during discovery; not finding it
		// here is a caller contract violation, not bad user data.
		currentID, ok := u.params.Cache.Get(
			u.params.ViewContext.Name(), u.params.ViewContext.BaseFolderPath,
		)
		if !ok {
			u.params.Logger.Error(
				"invariant violated: view ", u.params.ViewContext.Name(),
				" is missing from its own identity cache",
			)
			return
		}

		source, ok := u.params.ViewContext.ExploreSource()
		if !ok {
			return
		}

		exploreName, _ := source[lookml.NameKey].(string)
		if exploreName == "" {
			return
		}

		u.datasetURNs = []string{
			urn.LookerExplore(currentID.ModelName, exploreName, u.params.Config.Env),
		}
	})

	return u.datasetURNs
}

func (u *exploreDerivedUpstream) columnMapping() map[string]exploreColumn {
	u.mappingOnce.Do(func() {
		u.mapping = map[string]exploreColumn{}

		source, ok := u.params.ViewContext.ExploreSource()
		if !ok {
			return
		}

		var columns []exploreColumn
		if err := mapstructure.Decode(source[lookml.ColumnsKey], &columns); err != nil {
			u.params.Logger.Warnf(
				"malformed explore_source columns in view %q: %v",
				u.params.ViewContext.Name(), err,
			)
			return
		}

		for _, column := range columns {
			u.mapping[column.Name] = column
		}
	})

	return u.mapping
}

func (u *exploreDerivedUpstream) UpstreamColumns(field lookml.FieldContext) []sqlparser.ColumnRef {
	refs := make([]sqlparser.ColumnRef, 0)

	datasets := u.UpstreamDatasets()
	if len(datasets) == 0 {
		u.params.Logger.Debugf(
			"upstream explore not found for field %q of view %q",
			field.Name(), u.params.ViewContext.Name(),
		)
		return refs
	}

	for _, column := range field.ColumnNamesInSQL() {
		spec, ok := u.columnMapping()[column]
		if !ok {
			continue
		}

		target := spec.Field
		if target == "" {
			target = spec.Name
		}

		refs = append(refs, sqlparser.ColumnRef{Table: datasets[0], Column: target})
	}

	return refs
}

func (u *exploreDerivedUpstream) CreateFields() []Field { return []Field{} }
