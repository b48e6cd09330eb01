package lookml

import (
	"regexp"
	"strings"
)

// FieldContext is a read-only view of one field definition.
type FieldContext struct {
	Field map[string]interface{}
}

func (f FieldContext) Name() string {
	name, _ := f.Field[NameKey].(string)
	return name
}

func (f FieldContext) SQL() string {
	sql, _ := f.Field[SQLKey].(string)
	return sql
}

// ${TABLE}."column" or ${TABLE}.column, optionally quoted with " or `.
var tableColumnPattern = regexp.MustCompile("\\$\\{TABLE\\}\\.[\"`]*([\\w.]+)")

// ColumnNamesInSQL extracts the upstream column names a field's sql attribute
// references through the ${TABLE} substitution, lowercased and deduplicated.
func (f FieldContext) ColumnNamesInSQL() []string {
	sql := f.SQL()
	if sql == "" {
		return nil
	}

	seen := make(map[string]bool)
	columns := make([]string, 0)
	for _, match := range tableColumnPattern.FindAllStringSubmatch(sql, -1) {
		column := strings.ToLower(strings.Trim(match[1], `"`))
		column = strings.Trim(column, "`")
		if seen[column] {
			continue
		}

		seen[column] = true
		columns = append(columns, column)
	}

	return columns
}
