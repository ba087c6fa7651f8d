package connect

// Catalog is one connected data source exposed by the cloud service.
type Catalog struct {
	Name        string `json:"name"`
	Driver      string `json:"driver,omitempty"`
	Description string `json:"description,omitempty"`
}

// Schema is a namespace within a catalog.
type Schema struct {
	Catalog string `json:"catalog"`
	Name    string `json:"name"`
}

// Table is a table or view within a schema.
type Table struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"` // TABLE or VIEW
	Remarks string `json:"remarks,omitempty"`
}

// Column describes one column of a table.
type Column struct {
	Catalog         string `json:"catalog"`
	Schema          string `json:"schema"`
	Table           string `json:"table"`
	Name            string `json:"name"`
	DataType        string `json:"data_type"`
	Nullable        bool   `json:"nullable"`
	IsKey           bool   `json:"is_key,omitempty"`
	OrdinalPosition int    `json:"ordinal_position,omitempty"`
}

// Procedure is a stored procedure exposed by a catalog.
type Procedure struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
	Name    string `json:"name"`
	Remarks string `json:"remarks,omitempty"`
}

// ColumnMeta describes one column of a result set.
type ColumnMeta struct {
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType"`
}

// ResultSet is one tabular result produced by a query or procedure call.
type ResultSet struct {
	Schema   []ColumnMeta `json:"schema"`
	Rows     [][]any      `json:"rows"`
	RowCount int          `json:"rowCount"`
}

// QueryResult is the body returned by the /query endpoint. A single
// statement yields a single result set.
type QueryResult struct {
	Results []ResultSet `json:"results"`
}

// ExecResult is the body returned by the /exec endpoint.
type ExecResult struct {
	Results      []ResultSet    `json:"results"`
	OutputValues map[string]any `json:"outputValues,omitempty"`
}
