package upstream

import (
	"sync"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
	"github.com/sid-acryl/lookml-lineage/pkg/resolver"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
	"github.com/sid-acryl/lookml-lineage/pkg/urn"
)

// regularUpstream handles views whose upstream dataset is the view's own name
// or an explicit sql_table_name, qualified through the connection defaults.
type regularUpstream struct {
	params Params

	once       sync.Once
	datasetURN string
}

func (u *regularUpstream) Kind() lookml.BindingKind { return lookml.BindingRegular }

func (u *regularUpstream) resolve() string {
	u.once.Do(func() {
		conn := u.params.ViewContext.Connection
		qualified := resolver.QualifiedTableName(
			u.params.ViewContext.SQLTableName(), conn, u.params.Logger,
		)

		u.datasetURN = urn.Dataset(
			conn.Platform, qualified, conn.PlatformInstance, conn.Env(u.params.Config),
		)
	})

	return u.datasetURN
}

func (u *regularUpstream) UpstreamDatasets() []string {
	return []string{u.resolve()}
}

func (u *regularUpstream) UpstreamColumns(field lookml.FieldContext) []sqlparser.ColumnRef {
	refs := make([]sqlparser.ColumnRef, 0)
	for _, column := range field.ColumnNamesInSQL() {
		refs = append(refs, sqlparser.ColumnRef{Table: u.resolve(), Column: column})
	}

	return refs
}

func (u *regularUpstream) CreateFields() []Field { return []Field{} }
