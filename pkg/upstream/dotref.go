package upstream

import (
	"sync"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
	"github.com/sid-acryl/lookml-lineage/pkg/resolver"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
)

// dotReferenceUpstream handles views bound through
// sql_table_name: ${other_view.SQL_TABLE_NAME}. The referenced view is
// dereferenced through the identity cache; a lookup miss yields empty lineage.
type dotReferenceUpstream struct {
	params Params

	once        sync.Once
	datasetURNs []string
}

func (u *dotReferenceUpstream) Kind() lookml.BindingKind { return lookml.BindingDotReference }

func (u *dotReferenceUpstream) resolve() []string {
	u.once.Do(func() {
		u.datasetURNs = []string{}

		qualified := resolver.QualifiedTableName(
			u.params.ViewContext.SQLTableName(),
			u.params.ViewContext.Connection,
			u.params.Logger,
		)

		id, ok := resolver.DerivedViewIdentity(qualified, u.params.ViewContext.BaseFolderPath, u.params.Cache)
		if !ok {
			u.params.Logger.Debugf(
				"derived view reference %q of view %q did not resolve",
				qualified, u.params.ViewContext.Name(),
			)
			return
		}

		u.datasetURNs = []string{id.URN(u.params.Config)}
	})

	return u.datasetURNs
}

func (u *dotReferenceUpstream) UpstreamDatasets() []string {
	return u.resolve()
}

func (u *dotReferenceUpstream) UpstreamColumns(field lookml.FieldContext) []sqlparser.ColumnRef {
	refs := make([]sqlparser.ColumnRef, 0)

	datasets := u.resolve()
	if len(datasets) == 0 {
		return refs
	}

	for _, column := range field.ColumnNamesInSQL() {
		refs = append(refs, sqlparser.ColumnRef{Table: datasets[0], Column: column})
	}

	return refs
}

func (u *dotReferenceUpstream) CreateFields() []Field { return []Field{} }
