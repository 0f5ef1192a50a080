package csvimport

// ColumnType is the declared type of a schema column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeNumber
	TypeInteger
	TypeDate
	TypeBoolean
	TypeEnum
	TypePhone
	TypeCurrency
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeDate:
		return "date"
	case TypeBoolean:
		return "boolean"
	case TypeEnum:
		return "enum"
	case TypePhone:
		return "phone"
	case TypeCurrency:
		return "currency"
	default:
		return "unknown"
	}
}

// localeSensitive reports whether values of this type need a locale-aware
// checker (§4.5) rather than a plain parse.
func (t ColumnType) localeSensitive() bool {
	switch t {
	case TypeDate, TypeNumber, TypeInteger, TypeCurrency, TypePhone, TypeBoolean:
		return true
	default:
		return false
	}
}

// ColumnDef declares one schema column: its type, an optional locale
// override, header aliases for the mapper, and an ordered rule list.
type ColumnDef struct {
	Name    string
	Type    ColumnType
	Locale  string // overrides Schema.DefaultLocale when non-empty
	Aliases []string
	Rules   []Rule
}

// Schema is an ordered set of column definitions. It is kept as a slice
// rather than a map because the mapper's fuzzy-match tie-break and the
// applicator's output column order both depend on schema declaration
// order, which a Go map cannot express.
type Schema struct {
	Columns       []*ColumnDef
	DefaultLocale string

	byName map[string]*ColumnDef
}

// NewSchema builds a Schema from an ordered list of column definitions. A
// non-empty defaultLocale and any column-level locale override must name a
// registered locale, and every column's Type must be one of the declared
// ColumnType constants — both checked once here rather than surfacing as a
// confusing English-fallback or no-op rule match deep inside validation.
func NewSchema(defaultLocale string, columns ...*ColumnDef) (*Schema, error) {
	if len(columns) == 0 {
		return nil, wrapSchemaErr(ErrInvalidSchema, "schema has no columns")
	}
	if defaultLocale != "" && !HasLocale(defaultLocale) {
		return nil, wrapSchemaErr(ErrUnknownLocale, "%q", defaultLocale)
	}
	s := &Schema{Columns: columns, DefaultLocale: defaultLocale}
	s.byName = make(map[string]*ColumnDef, len(columns))
	for _, col := range columns {
		if col.Name == "" {
			return nil, wrapSchemaErr(ErrInvalidSchema, "column with empty name")
		}
		if _, dup := s.byName[col.Name]; dup {
			return nil, wrapSchemaErr(ErrInvalidSchema, "duplicate column %q", col.Name)
		}
		if col.Type < TypeString || col.Type > TypeCurrency {
			return nil, wrapSchemaErr(ErrUnknownColumnType, "column %q has type %d", col.Name, col.Type)
		}
		if col.Locale != "" && !HasLocale(col.Locale) {
			return nil, wrapSchemaErr(ErrUnknownLocale, "column %q locale %q", col.Name, col.Locale)
		}
		s.byName[col.Name] = col
	}
	return s, nil
}

// Column looks up a column definition by name.
func (s *Schema) Column(name string) (*ColumnDef, bool) {
	col, ok := s.byName[name]
	return col, ok
}

// ColumnNames returns column names in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Len returns the number of columns in the schema.
func (s *Schema) Len() int {
	return len(s.Columns)
}

// localeFor resolves the effective locale id for a column.
func (s *Schema) localeFor(col *ColumnDef) string {
	if col.Locale != "" {
		return col.Locale
	}
	if s.DefaultLocale != "" {
		return s.DefaultLocale
	}
	return "en"
}
