package csvimport

// ApplyOptions configures ApplyMapping.
type ApplyOptions struct {
	HasHeader bool
}

// ApplyMapping projects a parsed matrix through a mapping into the schema's
// column order. Output row width always equals schema.Len(); a schema
// column with no claiming source gets an empty string. The input is
// never mutated.
func ApplyMapping(rows [][]string, mapping *MappingResult, schema *Schema, options ...ApplyOptions) [][]string {
	opts := ApplyOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	sourceForColumn := make(map[string]int, len(mapping.Matches))
	for i, m := range mapping.Matches {
		if m.SchemaColumn != "" {
			sourceForColumn[m.SchemaColumn] = i
		}
	}

	start := 0
	if opts.HasHeader && len(rows) > 0 {
		start = 1
	}
	if start > len(rows) {
		start = len(rows)
	}

	width := schema.Len()
	out := make([][]string, 0, len(rows)-start)
	for _, row := range rows[start:] {
		outRow := make([]string, width)
		for col, colDef := range schema.Columns {
			if srcIdx, ok := sourceForColumn[colDef.Name]; ok && srcIdx < len(row) {
				outRow[col] = row[srcIdx]
			}
		}
		out = append(out, outRow)
	}
	return out
}
