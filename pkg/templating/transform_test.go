package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/lookml"
)

func derivedSQLView(name, sql string) lookml.View {
	return lookml.View{
		"name": name,
		"derived_table": map[string]interface{}{
			"sql": sql,
		},
	}
}

func transformedSQL(t *testing.T, view lookml.View) string {
	t.Helper()

	dt, ok := view[lookml.DerivedTableKey].(map[string]interface{})
	require.True(t, ok)

	sql, ok := dt[lookml.TransformedSQLKey].(string)
	require.True(t, ok)

	return sql
}

func TestIfCommentTransformer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		environment string
		sql         string
		want        string
	}{
		{
			name:        "other environment line is dropped entirely",
			environment: "prod",
			sql:         "-- if dev --  dropped line\nkept",
			want:        "\nkept",
		},
		{
			name:        "matching environment keeps the content",
			environment: "prod",
			sql:         "-- if prod -- kept_expr",
			want:        " kept_expr",
		},
		{
			name:        "matching is case-insensitive",
			environment: "prod",
			sql:         "-- IF PROD -- a\n-- If Dev -- b\nc",
			want:        " a\n\nc",
		},
		{
			name:        "dev environment drops prod branches",
			environment: "dev",
			sql:         "-- if prod -- live_table\n-- if dev -- dev_table",
			want:        "\n dev_table",
		},
		{
			name:        "back to back directives terminate each other",
			environment: "prod",
			sql:         "-- if dev -- a -- if prod -- b",
			want:        " b",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transformer := NewIfCommentTransformer(tt.environment)
			update := transformer.Transform(derivedSQLView("orders", tt.sql))

			assert.Equal(t, tt.want, transformedSQL(t, update))
		})
	}
}

func TestIfCommentTransformer_SQLTableName(t *testing.T) {
	t.Parallel()

	transformer := NewIfCommentTransformer("prod")
	update := transformer.Transform(lookml.View{
		"name":           "orders",
		"sql_table_name": "-- if prod -- warehouse.orders",
	})

	assert.Equal(t, " warehouse.orders", update[lookml.TransformedSQLTableNameKey])
}

func TestDropDerivedViewPatternTransformer(t *testing.T) {
	t.Parallel()

	transformer := NewDropDerivedViewPatternTransformer()
	update := transformer.Transform(lookml.View{
		"name":           "employee_totals",
		"sql_table_name": "${employee_income_source.SQL_TABLE_NAME}",
	})

	assert.Equal(t, "employee_income_source.SQL_TABLE_NAME", update[lookml.TransformedSQLTableNameKey])
}

func TestIncompleteSQLTransformer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "bare expression gets select and from",
			sql:  "a.b = 1",
			want: "SELECT a.b = 1 FROM orders",
		},
		{
			name: "missing from clause is synthesized",
			sql:  "SELECT id, amount",
			want: "SELECT id, amount FROM orders",
		},
		{
			name: "complete sql is left untouched",
			sql:  "SELECT id FROM warehouse.orders",
			want: "SELECT id FROM warehouse.orders",
		},
		{
			name: "keyword detection is case-insensitive",
			sql:  "select id from warehouse.orders",
			want: "select id from warehouse.orders",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transformer := NewIncompleteSQLTransformer()
			update := transformer.Transform(derivedSQLView("orders", tt.sql))

			assert.Equal(t, tt.want, transformedSQL(t, update))
		})
	}
}

func TestIncompleteSQLTransformer_LeavesTableNamesAlone(t *testing.T) {
	t.Parallel()

	transformer := NewIncompleteSQLTransformer()
	update := transformer.Transform(lookml.View{
		"name":           "orders",
		"sql_table_name": "warehouse.orders",
	})

	assert.Empty(t, update)
}

func TestTransformerGivesPrecedenceToTransformedValue(t *testing.T) {
	t.Parallel()

	view := derivedSQLView("orders", "raw fragment")
	dt := view[lookml.DerivedTableKey].(map[string]interface{})
	dt[lookml.TransformedSQLKey] = "SELECT already_transformed"

	transformer := NewIncompleteSQLTransformer()
	update := transformer.Transform(view)

	assert.Equal(t, "SELECT already_transformed FROM orders", transformedSQL(t, update))
}

func TestDefaultTransformersPipeline(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Environment: "prod",
		LiquidVariables: map[string]interface{}{
			"cutoff": "2024-01-01",
		},
	}

	view := derivedSQLView("orders_summary", "-- if dev -- dev_only\nid, amount FROM ${orders.SQL_TABLE_NAME} WHERE dt > '{{ cutoff }}'")
	transformed := NewTransformedView(DefaultTransformers(cfg, zap.NewNop().Sugar()), view).View()

	assert.Equal(t,
		"SELECT \nid, amount FROM orders.SQL_TABLE_NAME WHERE dt > '2024-01-01'",
		transformedSQL(t, transformed),
	)

	// the original fragment stays next to the transformed value
	dt := transformed[lookml.DerivedTableKey].(map[string]interface{})
	assert.Equal(t, "-- if dev -- dev_only\nid, amount FROM ${orders.SQL_TABLE_NAME} WHERE dt > '{{ cutoff }}'", dt[lookml.SQLKey])
}
