// Package templating runs a view's SQL-bearing fields through an ordered chain
// of text transformers. Each transformer returns a sparse update holding the
// transformed value under a derived key; originals are never overwritten, and
// later stages pick up where earlier ones left off.
package templating

import (
	"regexp"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/liquid"
	"github.com/sid-acryl/lookml-lineage/pkg/logger"
	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
)

type Transformer interface {
	// Transform inspects the view and returns a sparse update to be
	// deep-merged into it. A view with nothing to transform yields an
	// empty update.
	Transform(view lookml.View) lookml.View
}

// DefaultTransformers returns the full resolution chain in its required order:
// conditional comments are evaluated first, then variables are resolved, then
// the ${} cross-reference wrapper is stripped, and finally fragments are
// completed into parseable SQL.
func DefaultTransformers(cfg *config.Config, log logger.Logger) []Transformer {
	return []Transformer{
		NewIfCommentTransformer(cfg.Environment),
		NewLiquidVariableTransformer(liquid.NewRenderer(cfg.LiquidVariables, log)),
		NewDropDerivedViewPatternTransformer(),
		NewIncompleteSQLTransformer(),
	}
}

// transformSQLLocations applies a text transformation to the view's
// SQL-bearing locations: the flat sql_table_name reference (when
// includeTableName is set) and the derived table's sql. Each location is
// handled independently; the value fed to apply is the already-transformed one
// when a previous stage produced it.
func transformSQLLocations(view lookml.View, includeTableName bool, apply func(value string) string) lookml.View {
	update := lookml.View{}

	if includeTableName {
		if _, ok := view[lookml.SQLTableNameKey]; ok {
			if value := currentValue(view, lookml.TransformedSQLTableNameKey, lookml.SQLTableNameKey); value != "" {
				update[lookml.TransformedSQLTableNameKey] = apply(value)
			}
		}
	}

	if dt, ok := view.DerivedTable(); ok {
		if _, ok := dt[lookml.SQLKey].(string); ok {
			if value := currentValue(dt, lookml.TransformedSQLKey, lookml.SQLKey); value != "" {
				update[lookml.DerivedTableKey] = map[string]interface{}{
					lookml.TransformedSQLKey: apply(value),
				}
			}
		}
	}

	return update
}

func currentValue(m map[string]interface{}, transformedKey, rawKey string) string {
	if value, ok := m[transformedKey].(string); ok {
		return value
	}

	value, _ := m[rawKey].(string)
	return value
}

// IfCommentTransformer evaluates "-- if dev --" / "-- if prod --" directives:
// lines conditioned on the other environment are dropped entirely, matching
// directives are stripped with their content kept.
type IfCommentTransformer struct {
	keep   *regexp.Regexp
	remove *regexp.Regexp
}

func NewIfCommentTransformer(environment string) *IfCommentTransformer {
	other := config.EnvironmentDev
	if environment == config.EnvironmentDev {
		other = config.EnvironmentProd
	}

	return &IfCommentTransformer{
		keep: regexp.MustCompile(`(?i)-- if ` + environment + ` --`),
		// Content after the directive is consumed up to the next newline
		// or directive; the delimiter itself is restored on replacement.
		remove: regexp.MustCompile(`(?i)-- if ` + other + ` --[^\n]*?(-- if |\n|$)`),
	}
}

func (t *IfCommentTransformer) Transform(view lookml.View) lookml.View {
	return transformSQLLocations(view, true, func(value string) string {
		value = t.remove.ReplaceAllString(value, "${1}")
		return t.keep.ReplaceAllString(value, "")
	})
}

// LiquidVariableTransformer resolves variable references in the SQL text.
type LiquidVariableTransformer struct {
	renderer *liquid.Renderer
}

func NewLiquidVariableTransformer(renderer *liquid.Renderer) *LiquidVariableTransformer {
	return &LiquidVariableTransformer{renderer: renderer}
}

func (t *LiquidVariableTransformer) Transform(view lookml.View) lookml.View {
	return transformSQLLocations(view, true, t.renderer.Resolve)
}

var derivedViewWrapperPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// DropDerivedViewPatternTransformer strips the ${...} wrapper from resolved
// names, turning ${employee_income_source.SQL_TABLE_NAME} into the plain
// dotted reference employee_income_source.SQL_TABLE_NAME.
type DropDerivedViewPatternTransformer struct{}

func NewDropDerivedViewPatternTransformer() *DropDerivedViewPatternTransformer {
	return &DropDerivedViewPatternTransformer{}
}

func (t *DropDerivedViewPatternTransformer) Transform(view lookml.View) lookml.View {
	return transformSQLLocations(view, true, func(value string) string {
		return derivedViewWrapperPattern.ReplaceAllString(value, "${1}")
	})
}

var (
	selectClausePattern = regexp.MustCompile(`(?i)SELECT\s`)
	fromClausePattern   = regexp.MustCompile(`(?i)FROM\s`)
)

// IncompleteSQLTransformer completes derived-table SQL fragments: a bare
// expression gets a SELECT clause prepended, and a missing FROM clause is
// synthesized from the view's own name. Only the derived table's sql is
// touched; completing a flat table reference would corrupt it.
type IncompleteSQLTransformer struct{}

func NewIncompleteSQLTransformer() *IncompleteSQLTransformer {
	return &IncompleteSQLTransformer{}
}

func (t *IncompleteSQLTransformer) Transform(view lookml.View) lookml.View {
	return transformSQLLocations(view, false, func(value string) string {
		return CompleteSQL(value, view.Name())
	})
}

// CompleteSQL turns a SQL fragment into a complete statement, using viewName
// as the implicit source when no FROM clause is present.
func CompleteSQL(sql, viewName string) string {
	if !selectClausePattern.MatchString(sql) {
		sql = "SELECT " + sql
	}

	if !fromClausePattern.MatchString(sql) {
		sql = sql + " FROM " + viewName
	}

	return sql
}
