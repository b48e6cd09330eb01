package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/sqlparser"
)

func testCache(t *testing.T, declared map[string]string) *IdentityCache {
	t.Helper()

	return NewIdentityCache("sales_model", &countingFinder{files: declared}, zap.NewNop().Sugar())
}

func TestDerivedViewIdentity(t *testing.T) {
	t.Parallel()

	cache := testCache(t, map[string]string{
		"employee_income_source": "views/employee_income_source.view.lkml.json",
	})

	t.Run("resolves the view right before the suffix", func(t *testing.T) {
		t.Parallel()

		id, ok := DerivedViewIdentity("db.schema.employee_income_source.sql_table_name", "views", cache)
		require.True(t, ok)
		assert.Equal(t, "employee_income_source", id.ViewName)
	})

	t.Run("names without the suffix do not resolve", func(t *testing.T) {
		t.Parallel()

		_, ok := DerivedViewIdentity("db.schema.employees", "views", cache)
		assert.False(t, ok)
	})

	t.Run("an undeclared view is a miss", func(t *testing.T) {
		t.Parallel()

		_, ok := DerivedViewIdentity("db.schema.ghost.sql_table_name", "views", cache)
		assert.False(t, ok)
	})
}

func TestFixDerivedViewURNs(t *testing.T) {
	t.Parallel()

	cache := testCache(t, map[string]string{
		"employee_income_source": "views/employee_income_source.view.lkml.json",
	})
	cfg := &config.Config{Env: "PROD"}

	got := FixDerivedViewURNs([]string{
		"urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employee_income_source.sql_table_name,PROD)",
		"urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employees,PROD)",
	}, cache, cfg, "views")

	assert.Equal(t, []string{
		"urn:li:dataset:(urn:li:dataPlatform:looker,sales_model.view.employee_income_source,PROD)",
		"urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employees,PROD)",
	}, got)
}

func TestFixDerivedViewColumnRefs(t *testing.T) {
	t.Parallel()

	cache := testCache(t, map[string]string{
		"employee_income_source": "views/employee_income_source.view.lkml.json",
	})
	cfg := &config.Config{Env: "PROD"}

	got := FixDerivedViewColumnRefs([]sqlparser.ColumnRef{
		{Table: "urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employee_income_source.sql_table_name,PROD)", Column: "income"},
		{Table: "urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employees,PROD)", Column: "id"},
	}, cache, cfg, "views")

	assert.Equal(t, []sqlparser.ColumnRef{
		{Table: "urn:li:dataset:(urn:li:dataPlatform:looker,sales_model.view.employee_income_source,PROD)", Column: "income"},
		{Table: "urn:li:dataset:(urn:li:dataPlatform:postgres,db.schema.employees,PROD)", Column: "id"},
	}, got)
}
