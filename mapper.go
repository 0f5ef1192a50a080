package csvimport

// MatchConfidence is the qualitative strength of a header-to-column match.
type MatchConfidence int

const (
	ConfidenceNone MatchConfidence = iota
	ConfidenceFuzzy
	ConfidenceAlias
	ConfidenceExact
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceAlias:
		return "alias"
	case ConfidenceFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// MappingMatch is the mapper's verdict for one source column.
type MappingMatch struct {
	SourceHeader string
	SchemaColumn string
	Confidence   MatchConfidence
	Score        float64
}

// MappingResult is the mapper's full report.
type MappingResult struct {
	Matches               []MappingMatch
	UnmappedSourceIndices []int
	UnmappedSchemaColumns []string
	AutoMapped            int
	NeedsReview           int
	Unmapped              int
}

// MapOptions configures MapColumns.
type MapOptions struct {
	FuzzyThreshold      float64
	AutoAcceptThreshold float64
}

// DefaultMapOptions returns the default match thresholds.
func DefaultMapOptions() MapOptions {
	return MapOptions{FuzzyThreshold: 0.6, AutoAcceptThreshold: 0.6}
}

// MapColumns matches source headers onto schema columns using exact, then
// alias, then fuzzy strategies in that strict priority order, never
// re-assigning a schema column that a higher-priority pass already claimed.
func MapColumns(sourceHeaders []string, schema *Schema, options ...MapOptions) *MappingResult {
	opts := DefaultMapOptions()
	if len(options) > 0 {
		opts = options[0]
		if opts.FuzzyThreshold == 0 {
			opts.FuzzyThreshold = 0.6
		}
	}

	claimed := make(map[string]bool, schema.Len())
	matches := make([]MappingMatch, len(sourceHeaders))

	// Pass 1: exact.
	for i, header := range sourceHeaders {
		for _, col := range schema.Columns {
			if claimed[col.Name] {
				continue
			}
			if foldEqual(header, col.Name) {
				matches[i] = MappingMatch{SourceHeader: header, SchemaColumn: col.Name, Confidence: ConfidenceExact, Score: 1.0}
				claimed[col.Name] = true
				break
			}
		}
	}

	// Pass 2: alias.
	for i, header := range sourceHeaders {
		if matches[i].Confidence != ConfidenceNone {
			continue
		}
		for _, col := range schema.Columns {
			if claimed[col.Name] {
				continue
			}
			for _, alias := range col.Aliases {
				if foldEqual(header, alias) {
					matches[i] = MappingMatch{SourceHeader: header, SchemaColumn: col.Name, Confidence: ConfidenceAlias, Score: 1.0}
					claimed[col.Name] = true
					break
				}
			}
			if matches[i].Confidence != ConfidenceNone {
				break
			}
		}
	}

	// Pass 3: fuzzy, argmax over remaining unclaimed columns, ties broken by
	// schema declaration order (schema.Columns is already in that order).
	for i, header := range sourceHeaders {
		if matches[i].Confidence != ConfidenceNone {
			continue
		}
		bestCol := ""
		bestScore := -1.0
		for _, col := range schema.Columns {
			if claimed[col.Name] {
				continue
			}
			s := similarity(header, col.Name)
			if s > bestScore {
				bestScore = s
				bestCol = col.Name
			}
		}
		if bestCol != "" && bestScore >= opts.FuzzyThreshold {
			matches[i] = MappingMatch{SourceHeader: header, SchemaColumn: bestCol, Confidence: ConfidenceFuzzy, Score: bestScore}
			claimed[bestCol] = true
			continue
		}
		matches[i] = MappingMatch{SourceHeader: header, SchemaColumn: "", Confidence: ConfidenceNone, Score: 0}
	}

	return buildMappingResult(matches, schema)
}

func buildMappingResult(matches []MappingMatch, schema *Schema) *MappingResult {
	result := &MappingResult{Matches: matches}
	claimedNames := make(map[string]bool, len(matches))

	for i, m := range matches {
		switch m.Confidence {
		case ConfidenceExact, ConfidenceAlias:
			result.AutoMapped++
			claimedNames[m.SchemaColumn] = true
		case ConfidenceFuzzy:
			result.NeedsReview++
			claimedNames[m.SchemaColumn] = true
		default:
			result.Unmapped++
			result.UnmappedSourceIndices = append(result.UnmappedSourceIndices, i)
		}
	}

	for _, col := range schema.Columns {
		if !claimedNames[col.Name] {
			result.UnmappedSchemaColumns = append(result.UnmappedSchemaColumns, col.Name)
		}
	}
	return result
}

// ShouldAutoMap reports whether every schema column is claimed and every
// non-empty mapping is exact/alias or fuzzy with score >= threshold.
func ShouldAutoMap(result *MappingResult, threshold float64) bool {
	if len(result.UnmappedSchemaColumns) > 0 {
		return false
	}
	for _, m := range result.Matches {
		if m.Confidence == ConfidenceNone {
			continue
		}
		if m.Confidence == ConfidenceFuzzy && m.Score < threshold {
			return false
		}
	}
	return true
}

// UpdateMapping reassigns a source column to a schema column, demoting
// whichever source previously held that schema column to "none", then
// recomputes every counter from scratch.
func UpdateMapping(result *MappingResult, csvIndex int, schemaColumn string, schema *Schema) *MappingResult {
	matches := make([]MappingMatch, len(result.Matches))
	copy(matches, result.Matches)

	if csvIndex < 0 || csvIndex >= len(matches) {
		return result
	}

	if schemaColumn != "" {
		for i := range matches {
			if i != csvIndex && matches[i].SchemaColumn == schemaColumn {
				matches[i] = MappingMatch{SourceHeader: matches[i].SourceHeader, Confidence: ConfidenceNone}
			}
		}
	}

	matches[csvIndex] = MappingMatch{
		SourceHeader: matches[csvIndex].SourceHeader,
		SchemaColumn: schemaColumn,
		Confidence:   manualConfidence(schemaColumn),
		Score:        manualScore(schemaColumn),
	}

	return buildMappingResult(matches, schema)
}

func manualConfidence(schemaColumn string) MatchConfidence {
	if schemaColumn == "" {
		return ConfidenceNone
	}
	return ConfidenceExact
}

func manualScore(schemaColumn string) float64 {
	if schemaColumn == "" {
		return 0
	}
	return 1.0
}
