package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
)

func TestQualifiedTableName(t *testing.T) {
	t.Parallel()

	snowflake := config.Connection{
		Platform:      "snowflake",
		DefaultDB:     "DefaultDB",
		DefaultSchema: "DefaultSchema",
	}
	hive := config.Connection{
		Platform:      "hive",
		DefaultDB:     "DefaultDB",
		DefaultSchema: "DefaultSchema",
	}

	tests := []struct {
		name         string
		sqlTableName string
		conn         config.Connection
		want         string
	}{
		{
			name:         "bare table on a three-part platform gets db and schema",
			sqlTableName: "tbl",
			conn:         snowflake,
			want:         "defaultdb.defaultschema.tbl",
		},
		{
			name:         "bare table on a two-part platform gets only the db",
			sqlTableName: "tbl",
			conn:         hive,
			want:         "defaultdb.tbl",
		},
		{
			name:         "two segments on a three-part platform get the default db",
			sqlTableName: "schema.tbl",
			conn:         snowflake,
			want:         "defaultdb.schema.tbl",
		},
		{
			name:         "two segments on a two-part platform are used as-is",
			sqlTableName: "db.tbl",
			conn:         hive,
			want:         "db.tbl",
		},
		{
			name:         "three segments on a three-part platform are lowercased unchanged",
			sqlTableName: "Proj.DB.Tbl",
			conn:         snowflake,
			want:         "proj.db.tbl",
		},
		{
			name:         "three segments on a two-part platform drop the leading qualifier",
			sqlTableName: "proj.db.tbl",
			conn:         hive,
			want:         "db.tbl",
		},
		{
			name:         "more than three segments is kept as-is lowercased",
			sqlTableName: "A.B.C.D",
			conn:         snowflake,
			want:         "a.b.c.d",
		},
		{
			name:         "normalization is idempotent on canonical names",
			sqlTableName: "defaultdb.defaultschema.tbl",
			conn:         snowflake,
			want:         "defaultdb.defaultschema.tbl",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := QualifiedTableName(tt.sqlTableName, tt.conn, zap.NewNop().Sugar())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlatformHasTwoParts(t *testing.T) {
	t.Parallel()

	for _, platform := range []string{"hive", "mysql", "athena"} {
		assert.True(t, PlatformHasTwoParts(platform))
	}

	for _, platform := range []string{"snowflake", "bigquery", "postgres", ""} {
		assert.False(t, PlatformHasTwoParts(platform))
	}
}
