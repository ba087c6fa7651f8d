package connect

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

// System tables exposing the service's metadata catalog.
const (
	sysCatalogs   = "sys_catalogs"
	sysSchemas    = "sys_schemas"
	sysTables     = "sys_tables"
	sysColumns    = "sys_columns"
	sysProcedures = "sys_procedures"
)

// builder produces statements with @p1-style placeholders, matching the
// service's named-parameter form.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.AtP)

// namedParams converts positional squirrel args to the @p1..@pN map the
// /query endpoint expects.
func namedParams(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	params := make(map[string]any, len(args))
	for i, arg := range args {
		params["@p"+strconv.Itoa(i+1)] = arg
	}
	return params
}

// metadataQuery builds and runs one system-table query, returning the first
// result set.
func (c *Client) metadataQuery(ctx context.Context, b sq.SelectBuilder) (*ResultSet, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building metadata query: %w", err)
	}

	result, err := c.Query(ctx, query, namedParams(args))
	if err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return &ResultSet{}, nil
	}
	return &result.Results[0], nil
}

// Catalogs lists the connected data sources.
func (c *Client) Catalogs(ctx context.Context) ([]Catalog, error) {
	rs, err := c.metadataQuery(ctx, builder.
		Select("CatalogName", "DriverName", "Description").
		From(sysCatalogs).
		OrderBy("CatalogName"))
	if err != nil {
		return nil, err
	}

	catalogs := make([]Catalog, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		catalogs = append(catalogs, Catalog{
			Name:        text(row, 0),
			Driver:      text(row, 1),
			Description: text(row, 2),
		})
	}
	return catalogs, nil
}

// Schemas lists the schemas of one catalog.
func (c *Client) Schemas(ctx context.Context, catalog string) ([]Schema, error) {
	if catalog == "" {
		return nil, fmt.Errorf("catalog is required")
	}

	rs, err := c.metadataQuery(ctx, builder.
		Select("SchemaName").
		From(sysSchemas).
		Where(sq.Eq{"CatalogName": catalog}).
		OrderBy("SchemaName"))
	if err != nil {
		return nil, err
	}

	schemas := make([]Schema, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		schemas = append(schemas, Schema{Catalog: catalog, Name: text(row, 0)})
	}
	return schemas, nil
}

// Tables lists the tables and views of one schema.
func (c *Client) Tables(ctx context.Context, catalog, schema string) ([]Table, error) {
	if catalog == "" || schema == "" {
		return nil, fmt.Errorf("catalog and schema are required")
	}

	rs, err := c.metadataQuery(ctx, builder.
		Select("TableName", "TableType", "Description").
		From(sysTables).
		Where(sq.Eq{"CatalogName": catalog, "SchemaName": schema}).
		OrderBy("TableName"))
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		tables = append(tables, Table{
			Catalog: catalog,
			Schema:  schema,
			Name:    text(row, 0),
			Type:    text(row, 1),
			Remarks: text(row, 2),
		})
	}
	return tables, nil
}

// Columns lists the columns of one table.
func (c *Client) Columns(ctx context.Context, catalog, schema, table string) ([]Column, error) {
	if catalog == "" || schema == "" || table == "" {
		return nil, fmt.Errorf("catalog, schema, and table are required")
	}

	rs, err := c.metadataQuery(ctx, builder.
		Select("ColumnName", "DataTypeName", "IsNullable", "IsKey", "OrdinalPosition").
		From(sysColumns).
		Where(sq.Eq{"CatalogName": catalog, "SchemaName": schema, "TableName": table}).
		OrderBy("OrdinalPosition"))
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		columns = append(columns, Column{
			Catalog:         catalog,
			Schema:          schema,
			Table:           table,
			Name:            text(row, 0),
			DataType:        text(row, 1),
			Nullable:        truthy(row, 2),
			IsKey:           truthy(row, 3),
			OrdinalPosition: integer(row, 4),
		})
	}
	return columns, nil
}

// Procedures lists the stored procedures of a catalog, optionally filtered
// by schema.
func (c *Client) Procedures(ctx context.Context, catalog, schema string) ([]Procedure, error) {
	if catalog == "" {
		return nil, fmt.Errorf("catalog is required")
	}

	b := builder.
		Select("SchemaName", "ProcedureName", "Description").
		From(sysProcedures).
		Where(sq.Eq{"CatalogName": catalog}).
		OrderBy("SchemaName", "ProcedureName")
	if schema != "" {
		b = b.Where(sq.Eq{"SchemaName": schema})
	}

	rs, err := c.metadataQuery(ctx, b)
	if err != nil {
		return nil, err
	}

	procedures := make([]Procedure, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		procedures = append(procedures, Procedure{
			Catalog: catalog,
			Schema:  text(row, 0),
			Name:    text(row, 1),
			Remarks: text(row, 2),
		})
	}
	return procedures, nil
}

// text reads a row cell as a string; absent or non-string cells read empty.
func text(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

// truthy reads a row cell as a bool, accepting the bool/string/number forms
// different drivers emit for flags.
func truthy(row []any, i int) bool {
	if i >= len(row) || row[i] == nil {
		return false
	}
	switch v := row[i].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "TRUE" || v == "1" || v == "YES"
	case float64:
		return v != 0
	default:
		return false
	}
}

// integer reads a row cell as an int.
func integer(row []any, i int) int {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}
