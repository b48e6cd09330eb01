package lookml

import (
	"regexp"
	"strings"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
)

// View is one parsed LookML view definition. It is the raw mapping produced by
// the external parser, possibly augmented with transformed SQL keys.
type View map[string]interface{}

func (v View) Name() string {
	return v.stringValue(NameKey)
}

func (v View) DerivedTable() (map[string]interface{}, bool) {
	dt, ok := v[DerivedTableKey].(map[string]interface{})
	return dt, ok
}

func (v View) stringValue(key string) string {
	s, _ := v[key].(string)
	return s
}

// BindingKind classifies how a view is bound to its upstream datasets. The
// classification is a pure function of the view's structure; every view maps
// to exactly one kind.
type BindingKind int

const (
	BindingRegular BindingKind = iota
	BindingDotReference
	BindingSQLDerived
	BindingExploreDerived
	BindingUnresolved
)

func (k BindingKind) String() string {
	switch k {
	case BindingRegular:
		return "regular"
	case BindingDotReference:
		return "dot_reference"
	case BindingSQLDerived:
		return "sql_derived"
	case BindingExploreDerived:
		return "explore_derived"
	case BindingUnresolved:
		return "unresolved"
	}

	return "unknown"
}

// DerivedViewRefPattern matches a sql_table_name that points at another view's
// derived output, e.g. ${employee_income_source.SQL_TABLE_NAME}.
var DerivedViewRefPattern = regexp.MustCompile(`(?i)\$\{[\w.]+\.sql_table_name\}`)

const derivedViewSuffix = ".sql_table_name"

// ViewContext couples a view with where it came from and which connection its
// SQL resolves against.
type ViewContext struct {
	View           View
	FilePath       string
	BaseFolderPath string
	Connection     config.Connection
}

func (vc *ViewContext) Name() string {
	return vc.View.Name()
}

// SQLTableName returns the table the view is declared against: the transformed
// sql_table_name when the template pipeline produced one, the raw value
// otherwise, and the view's own name when neither is present. Quoting
// characters are stripped.
func (vc *ViewContext) SQLTableName() string {
	value := vc.View.stringValue(TransformedSQLTableNameKey)
	if value == "" {
		value = vc.View.stringValue(SQLTableNameKey)
	}
	if value == "" {
		value = vc.Name()
	}

	return strings.NewReplacer("`", "", `"`, "").Replace(value)
}

// SQL returns the derived table's SQL statement, preferring the transformed
// value over the original.
func (vc *ViewContext) SQL() string {
	dt, ok := vc.View.DerivedTable()
	if !ok {
		return ""
	}

	if sql, ok := dt[TransformedSQLKey].(string); ok {
		return sql
	}

	sql, _ := dt[SQLKey].(string)
	return sql
}

// ExploreSource returns the derived table's explore_source block, if any.
func (vc *ViewContext) ExploreSource() (map[string]interface{}, bool) {
	dt, ok := vc.View.DerivedTable()
	if !ok {
		return nil, false
	}

	src, ok := dt[ExploreSourceKey].(map[string]interface{})
	return src, ok
}

// Fields returns every declared field definition of the view, across
// dimensions, dimension groups, measures and filters.
func (vc *ViewContext) Fields() []FieldContext {
	fields := make([]FieldContext, 0)
	for _, key := range FieldDefinitionKeys {
		defs, ok := vc.View[key].([]interface{})
		if !ok {
			continue
		}

		for _, def := range defs {
			raw, ok := def.(map[string]interface{})
			if !ok {
				continue
			}

			fields = append(fields, FieldContext{Field: raw})
		}
	}

	return fields
}

// Classify determines the view's upstream-binding kind. The checks run in a
// fixed priority order but the structural conditions are mutually exclusive,
// so the outcome does not depend on that order.
func (vc *ViewContext) Classify() BindingKind {
	switch {
	case vc.isRegularCase():
		return BindingRegular
	case vc.isSQLTableNameReferringToView():
		return BindingDotReference
	case vc.isSQLBasedDerivedCase():
		return BindingSQLDerived
	case vc.isNativeDerivedCase():
		return BindingExploreDerived
	}

	return BindingUnresolved
}

func (vc *ViewContext) isRegularCase() bool {
	if _, ok := vc.View.DerivedTable(); ok {
		return false
	}

	return !vc.isSQLTableNameReferringToView()
}

// isSQLTableNameReferringToView detects sql_table_name values of the form
// ${other_view.SQL_TABLE_NAME}. The raw value is checked before the macro
// stripper runs, and the stripped form afterwards.
func (vc *ViewContext) isSQLTableNameReferringToView() bool {
	raw := vc.View.stringValue(SQLTableNameKey)
	if raw == "" {
		return false
	}

	if DerivedViewRefPattern.MatchString(raw) {
		return true
	}

	return strings.HasSuffix(strings.ToLower(vc.SQLTableName()), derivedViewSuffix)
}

func (vc *ViewContext) isSQLBasedDerivedCase() bool {
	dt, ok := vc.View.DerivedTable()
	if !ok {
		return false
	}

	_, ok = dt[SQLKey].(string)
	return ok
}

func (vc *ViewContext) isNativeDerivedCase() bool {
	_, ok := vc.ExploreSource()
	return ok
}
