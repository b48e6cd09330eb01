package upstream

import (
	"sync"

	"github.com/samber/lo"

	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
	"github.com/sid-acryl/lookml-lineage/pkg/resolver"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
	"github.com/sid-acryl/lookml-lineage/pkg/urn"
)

// sqlDerivedUpstream handles views backed by derived_table.sql. The
// transformed statement goes through the external lineage parser; any parse
// failure, or the parser being disabled by configuration, degrades to empty
// lineage.
type sqlDerivedUpstream struct {
	params Params

	parseOnce sync.Once
	result    *sqlparser.Result

	datasetsOnce sync.Once
	datasetURNs  []string
}

func (u *sqlDerivedUpstream) Kind() lookml.BindingKind { return lookml.BindingSQLDerived }

// parsed runs the lineage parser exactly once for the life of the instance.
// A nil return means no usable parsing result exists.
func (u *sqlDerivedUpstream) parsed() *sqlparser.Result {
	u.parseOnce.Do(func() {
		if !u.params.Config.ParseTableNamesFromSQL {
			return
		}

		conn := u.params.ViewContext.Connection
		result, err := u.params.Parser.ParseLineage(sqlparser.Request{
			SQL:              u.params.ViewContext.SQL(),
			DefaultSchema:    conn.DefaultSchema,
			DefaultDB:        conn.DefaultDB,
			Platform:         conn.Platform,
			PlatformInstance: conn.PlatformInstance,
			Env:              conn.Env(u.params.Config),
			Graph:            u.params.Graph,
		})
		if err != nil {
			u.params.Logger.Warnf(
				"failed to parse the sql of view %q: %v", u.params.ViewContext.Name(), err,
			)
			return
		}

		if result.Debug.HasError() {
			u.params.Logger.Debugf(
				"failed to parse the sql of view %q: table_error=%q column_error=%q",
				u.params.ViewContext.Name(), result.Debug.TableError, result.Debug.ColumnError,
			)
			return
		}

		u.result = result
	})

	return u.result
}

func (u *sqlDerivedUpstream) UpstreamDatasets() []string {
	u.datasetsOnce.Do(func() {
		u.datasetURNs = []string{}

		result := u.parsed()
		if result == nil {
			return
		}

		datasetURNs := lo.Map(result.InTables, func(table string, _ int) string {
			return urn.DropHiveDot(table)
		})

		// Input tables that are themselves derived-view names resolve to
		// the referenced view.
		u.datasetURNs = resolver.FixDerivedViewURNs(
			datasetURNs, u.params.Cache, u.params.Config, u.params.ViewContext.BaseFolderPath,
		)
	})

	return u.datasetURNs
}

func (u *sqlDerivedUpstream) UpstreamColumns(field lookml.FieldContext) []sqlparser.ColumnRef {
	result := u.parsed()
	if result == nil {
		return []sqlparser.ColumnRef{}
	}

	refs := make([]sqlparser.ColumnRef, 0)
	for _, lineage := range result.ColumnLineage {
		if lineage.Downstream.Column == field.Name() {
			refs = lineage.Upstreams
			break
		}
	}

	// Approximation: when the parser produced no lineage for this field,
	// which happens for "select *" statements and for extra fields declared
	// directly against the upstream table, every column the field references
	// is attributed to the first resolved upstream, the FROM-clause table.
	// Multi-table derived SQL may over-attribute here.
	if len(refs) == 0 && len(u.UpstreamDatasets()) > 0 {
		firstUpstream := u.UpstreamDatasets()[0]
		for _, column := range field.ColumnNamesInSQL() {
			refs = append(refs, sqlparser.ColumnRef{Table: firstUpstream, Column: column})
		}
	}

	return resolver.FixDerivedViewColumnRefs(
		refs, u.params.Cache, u.params.Config, u.params.ViewContext.BaseFolderPath,
	)
}

// CreateFields synthesizes one field per parsed downstream column, for views
// that declare no fields of their own.
func (u *sqlDerivedUpstream) CreateFields() []Field {
	result := u.parsed()
	if result == nil {
		return []Field{}
	}

	fields := make([]Field, 0, len(result.ColumnLineage))
	for _, lineage := range result.ColumnLineage {
		fieldType := lineage.Downstream.NativeColumnType
		if fieldType == "" {
			fieldType = "unknown"
		}

		fields = append(fields, Field{
			Name: lineage.Downstream.Column,
			Type: fieldType,
			Upstreams: lo.Map(lineage.Upstreams, func(ref sqlparser.ColumnRef, _ int) sqlparser.ColumnRef {
				return sqlparser.ColumnRef{Table: urn.DropHiveDot(ref.Table), Column: ref.Column}
			}),
		})
	}

	return fields
}
