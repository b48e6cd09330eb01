// Package sqlparser defines the contract of the external SQL-lineage parser.
// The engine itself (dialect handling, semantic analysis, optional lineage
// graph lookups) is a pluggable collaborator; this package only pins down the
// request and result shapes the resolution strategies depend on.
package sqlparser

// GraphHandle is an opaque handle to a lineage graph the parser may consult to
// resolve table schemas. It is passed through untouched.
type GraphHandle interface{}

// Request carries one SQL statement together with the connection context it
// should be resolved against.
type Request struct {
	SQL              string      `json:"sql"`
	DefaultSchema    string      `json:"default_schema"`
	DefaultDB        string      `json:"default_db"`
	Platform         string      `json:"platform"`
	PlatformInstance string      `json:"platform_instance"`
	Env              string      `json:"env"`
	Graph            GraphHandle `json:"-"`
}

// ColumnRef is one upstream (dataset, column) pair. Table holds a resolved
// dataset reference, or a raw table name when resolution was not possible.
type ColumnRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// DownstreamColumn is the output-side column of one lineage edge.
type DownstreamColumn struct {
	Column           string `json:"column"`
	NativeColumnType string `json:"native_column_type"`
}

// ColumnLineage maps one downstream column to the upstream columns that feed
// it.
type ColumnLineage struct {
	Downstream DownstreamColumn `json:"downstream"`
	Upstreams  []ColumnRef      `json:"upstreams"`
}

// DebugInfo carries the parser's table-level and column-level failure
// indicators. Either being set means the corresponding part of the result is
// unusable.
type DebugInfo struct {
	TableError  string `json:"table_error,omitempty"`
	ColumnError string `json:"column_error,omitempty"`
}

func (d DebugInfo) HasError() bool {
	return d.TableError != "" || d.ColumnError != ""
}

// Result is the parsed lineage of one statement. InTables holds the resolved
// input-dataset references in FROM-clause order.
type Result struct {
	InTables      []string        `json:"in_tables"`
	ColumnLineage []ColumnLineage `json:"column_lineage"`
	Debug         DebugInfo       `json:"debug"`
}

// Parser is the narrow interface the upstream strategies consume. An error
// return indicates a host-level failure; data-quality problems surface through
// Result.Debug instead.
type Parser interface {
	ParseLineage(request Request) (*Result, error)
}
