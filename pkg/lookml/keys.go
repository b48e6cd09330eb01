package lookml

// Keys of interest inside a parsed LookML view mapping. The parser itself is
// external; this package only walks its output.
const (
	NameKey          = "name"
	SQLTableNameKey  = "sql_table_name"
	DerivedTableKey  = "derived_table"
	SQLKey           = "sql"
	ExploreSourceKey = "explore_source"
	FieldKey         = "field"
	ColumnsKey       = "columns"
	ViewsKey         = "views"

	// Transformed SQL values are written next to the originals under these
	// keys. Originals are never overwritten so that every transformation
	// stage, and any re-entry, can give precedence to the already
	// transformed value.
	TransformedSQLTableNameKey = "datahub_transformed_sql_table_name"
	TransformedSQLKey          = "datahub_transformed_sql"
)

// Field definition list keys scanned for per-field lineage.
var FieldDefinitionKeys = []string{"dimensions", "dimension_groups", "measures", "filters"}
