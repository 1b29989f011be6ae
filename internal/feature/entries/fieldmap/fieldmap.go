// Package fieldmap translates fixed-order positional records into named
// field lookups. Older exports of the entries table exist in three
// incompatible column orders; each order is captured as an explicit
// Schema value that callers pass around, so a record is only ever decoded
// with the mapping it was produced under.
package fieldmap

// Schema maps field names to positions for one historical record layout.
type Schema struct {
	name    string
	columns []string
	index   map[string]int
}

// NewSchema builds a Schema from an ordered column list.
func NewSchema(name string, columns []string) Schema {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return Schema{name: name, columns: columns, index: idx}
}

// Name returns the schema's identifier.
func (s Schema) Name() string { return s.name }

// Columns returns the ordered column list.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Get looks up a named field in a positional record. It returns nil when
// the name is not part of the schema or when the record is shorter than
// the field's position, so partially-migrated rows degrade gracefully.
func (s Schema) Get(record []any, field string) any {
	i, ok := s.index[field]
	if !ok {
		return nil
	}
	if i >= len(record) {
		return nil
	}
	return record[i]
}

// The three layouts observed in legacy databases.
var (
	// QueryOrder is the column order of the legacy SELECT lists
	// (oldest exports).
	QueryOrder = NewSchema("query-order", []string{
		"id", "username", "filename", "description", "image_caption",
		"link", "link_summary", "categories", "uploaded_at", "user_id",
		"file_path", "file_size", "title", "tags", "image_width",
		"image_height", "notes", "is_favorite", "is_archived",
	})

	// EnhancedOrder adds the created/updated timestamps and regroups
	// the content columns.
	EnhancedOrder = NewSchema("enhanced-order", []string{
		"id", "username", "title", "filename", "description",
		"image_caption", "link", "link_summary", "categories", "tags",
		"file_path", "file_size", "image_width", "image_height",
		"notes", "is_favorite", "is_archived", "created_at",
		"updated_at", "uploaded_at",
	})

	// TableOrder matches the full table definition, user_id first.
	TableOrder = NewSchema("table-order", []string{
		"id", "user_id", "username", "title", "filename",
		"description", "image_caption", "link", "link_summary",
		"categories", "tags", "file_path", "file_size", "image_width",
		"image_height", "notes", "is_favorite", "is_archived",
		"created_at", "updated_at", "uploaded_at",
	})
)

// ByName resolves a schema identifier, defaulting to TableOrder for
// unknown names.
func ByName(name string) Schema {
	switch name {
	case QueryOrder.name:
		return QueryOrder
	case EnhancedOrder.name:
		return EnhancedOrder
	default:
		return TableOrder
	}
}
