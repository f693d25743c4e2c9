package display

import "github.com/bruneval/modup/pkg/output"

// ColumnDef defines a single table column's properties.
//
// Fields:
//   - Name: Column header text (displayed in uppercase)
//   - MinWidth: Minimum column width in characters
//   - Optional: If true, column can be hidden via TableOptions
//
// Example:
//
//	col := ColumnDef{Name: "NAME", MinWidth: 10}
type ColumnDef struct {
	// Name is the column header text.
	Name string

	// MinWidth is the minimum width in characters.
	// Column will expand to fit content if content is wider.
	MinWidth int

	// Optional indicates this column can be hidden.
	// Use TableOptions.ShowOptional to control visibility.
	Optional bool
}

// Schema defines a complete table structure.
//
// Fields:
//   - Columns: Ordered list of column definitions
//
// Example:
//
//	schema := Schema{
//	    Columns: []ColumnDef{
//	        {Name: "MODID", MinWidth: 5},
//	        {Name: "NAME", MinWidth: 10},
//	    },
//	}
type Schema struct {
	// Columns defines the table columns in display order.
	Columns []ColumnDef
}

// Predefined table schemas - SINGLE SOURCE OF TRUTH.
//
// These schemas define the exact column structure for each command's
// table output. All table creation should use these schemas.
var (
	// ListSchema defines columns for the 'list' command output.
	// Columns: MODID, NAME, VERSION, SIDE, KIND, FILE
	ListSchema = Schema{
		Columns: []ColumnDef{
			{Name: "MODID", MinWidth: 5},
			{Name: "NAME", MinWidth: 4},
			{Name: "VERSION", MinWidth: 7},
			{Name: "SIDE", MinWidth: 4},
			{Name: "KIND", MinWidth: 4},
			{Name: "FILE", MinWidth: 4},
		},
	}

	// CheckSchema defines columns for the 'check' command output.
	// Columns: MODID, NAME, INSTALLED, AVAILABLE, GAME VERSION, VERDICT, REASON*
	// * REASON is optional
	CheckSchema = Schema{
		Columns: []ColumnDef{
			{Name: "MODID", MinWidth: 5},
			{Name: "NAME", MinWidth: 4},
			{Name: "INSTALLED", MinWidth: 9},
			{Name: "AVAILABLE", MinWidth: 9},
			{Name: "GAME VERSION", MinWidth: 12},
			{Name: "VERDICT", MinWidth: 7},
			{Name: "REASON", MinWidth: 6, Optional: true},
		},
	}

	// UpdateSchema defines columns for the 'update' command output.
	// Columns: MODID, NAME, INSTALLED, TARGET, STATUS, REASON*
	// * REASON is optional
	UpdateSchema = Schema{
		Columns: []ColumnDef{
			{Name: "MODID", MinWidth: 5},
			{Name: "NAME", MinWidth: 4},
			{Name: "INSTALLED", MinWidth: 9},
			{Name: "TARGET", MinWidth: 6},
			{Name: "STATUS", MinWidth: 6},
			{Name: "REASON", MinWidth: 6, Optional: true},
		},
	}

	// BackupsSchema defines columns for the 'backups' command output.
	// Columns: MODID, FILE, SIZE, CREATED
	BackupsSchema = Schema{
		Columns: []ColumnDef{
			{Name: "MODID", MinWidth: 5},
			{Name: "FILE", MinWidth: 4},
			{Name: "SIZE", MinWidth: 4},
			{Name: "CREATED", MinWidth: 7},
		},
	}
)

// TableOptions configures table creation from a schema.
//
// Fields:
//   - ShowOptional: Map of optional column names to show
//
// Example:
//
//	opts := TableOptions{
//	    ShowOptional: map[string]bool{"REASON": true},
//	}
type TableOptions struct {
	// ShowOptional controls which optional columns are displayed.
	// Key is column name (e.g., "REASON"), value is whether to show.
	ShowOptional map[string]bool
}

// NewTableFromSchema creates an output.Table from a schema and options.
//
// Parameters:
//   - schema: Table schema defining columns
//   - options: Configuration options
//
// Returns:
//   - *output.Table: New table ready for adding rows
//
// Example:
//
//	opts := TableOptions{ShowOptional: map[string]bool{"REASON": true}}
//	table := display.NewTableFromSchema(display.CheckSchema, opts)
func NewTableFromSchema(schema Schema, options TableOptions) *output.Table {
	table := output.NewTable()
	for _, col := range schema.Columns {
		if col.Optional {
			visible := options.ShowOptional[col.Name]
			table.AddConditionalColumn(col.Name, visible)
		} else if col.MinWidth > 0 {
			table.AddColumnWithMinWidth(col.Name, col.MinWidth)
		} else {
			table.AddColumn(col.Name)
		}
	}
	return table
}

// NewListTable creates a table for 'list' command output.
//
// Returns:
//   - *output.Table: Table configured with ListSchema
func NewListTable() *output.Table {
	return NewTableFromSchema(ListSchema, TableOptions{})
}

// NewCheckTable creates a table for 'check' command output.
//
// Parameters:
//   - showReason: If true, includes the REASON column
//
// Returns:
//   - *output.Table: Table configured with CheckSchema
//
// Example:
//
//	table := display.NewCheckTable(true)  // with REASON column
//	table := display.NewCheckTable(false) // without REASON column
func NewCheckTable(showReason bool) *output.Table {
	return NewTableFromSchema(CheckSchema, TableOptions{
		ShowOptional: map[string]bool{"REASON": showReason},
	})
}

// NewUpdateTable creates a table for 'update' command output.
//
// Parameters:
//   - showReason: If true, includes the REASON column
//
// Returns:
//   - *output.Table: Table configured with UpdateSchema
func NewUpdateTable(showReason bool) *output.Table {
	return NewTableFromSchema(UpdateSchema, TableOptions{
		ShowOptional: map[string]bool{"REASON": showReason},
	})
}

// NewBackupsTable creates a table for 'backups' command output.
//
// Returns:
//   - *output.Table: Table configured with BackupsSchema
func NewBackupsTable() *output.Table {
	return NewTableFromSchema(BackupsSchema, TableOptions{})
}
