package resolver

import (
	"strings"

	"github.com/samber/lo"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
	"github.com/sid-acryl/lookml-lineage/pkg/urn"
)

const derivedViewSuffix = ".sql_table_name"

// DerivedViewIdentity resolves a qualified table name that is actually a
// derived-view reference, e.g. db.schema.employee_income_source.sql_table_name,
// to the identity of the referenced view. Names without the derived suffix,
// and views not declared anywhere, yield ok=false.
func DerivedViewIdentity(qualifiedTableName, baseFolderPath string, cache *IdentityCache) (*ViewIdentity, bool) {
	if !strings.HasSuffix(strings.ToLower(qualifiedTableName), derivedViewSuffix) {
		return nil, false
	}

	parts := strings.Split(qualifiedTableName, ".")
	if len(parts) < 2 {
		return nil, false
	}

	// The view name sits right before the .sql_table_name suffix.
	viewName := parts[len(parts)-2]

	return cache.Get(viewName, baseFolderPath)
}

// FixDerivedViewURNs rewrites dataset references that point at derived views
// to the referenced view's own reference. Everything else passes through
// unchanged.
func FixDerivedViewURNs(datasetURNs []string, cache *IdentityCache, cfg *config.Config, baseFolderPath string) []string {
	return lo.Map(datasetURNs, func(datasetURN string, _ int) string {
		id, ok := DerivedViewIdentity(urn.DatasetName(datasetURN), baseFolderPath, cache)
		if !ok {
			return datasetURN
		}

		return id.URN(cfg)
	})
}

// FixDerivedViewColumnRefs applies the same rewrite to the table side of
// column references.
func FixDerivedViewColumnRefs(refs []sqlparser.ColumnRef, cache *IdentityCache, cfg *config.Config, baseFolderPath string) []sqlparser.ColumnRef {
	return lo.Map(refs, func(ref sqlparser.ColumnRef, _ int) sqlparser.ColumnRef {
		id, ok := DerivedViewIdentity(urn.DatasetName(ref.Table), baseFolderPath, cache)
		if !ok {
			return ref
		}

		return sqlparser.ColumnRef{Table: id.URN(cfg), Column: ref.Column}
	})
}
