package triscan

import (
	"path/filepath"
	"strings"
)

// Years covered by the yearly value columns of population rows.
const (
	PopulationBaseYear = 1960
	PopulationLastYear = 2023
)

// PopulationRecord is one country/indicator row with one value per year from
// PopulationBaseYear through PopulationLastYear, plus the descriptive fields
// joined from country metadata.
type PopulationRecord struct {
	CountryName   string
	CountryCode   string
	IndicatorName string
	IndicatorCode string
	YearlyValues  []float64
	Region        string
	IncomeGroup   string
	SpecialNotes  string
}

// PopulationForYear returns the value for one year, or 0 outside the covered
// range.
func (r PopulationRecord) PopulationForYear(year int) float64 {
	index := year - PopulationBaseYear
	if index < 0 || index >= len(r.YearlyValues) {
		return 0
	}
	return r.YearlyValues[index]
}

// TotalPopulation sums the values across every covered year.
func (r PopulationRecord) TotalPopulation() float64 {
	total := 0.0
	for _, v := range r.YearlyValues {
		total += v
	}
	return total
}

// AveragePopulation is the mean across every covered year, 0 when the record
// has no values.
func (r PopulationRecord) AveragePopulation() float64 {
	if len(r.YearlyValues) == 0 {
		return 0
	}
	return r.TotalPopulation() / float64(len(r.YearlyValues))
}

// AverageForYearRange is the mean of the positive values in [startYear,
// endYear]. Years without data are excluded; 0 is returned when none of the
// years have data.
func (r PopulationRecord) AverageForYearRange(startYear, endYear int) float64 {
	total := 0.0
	count := 0
	for year := startYear; year <= endYear; year++ {
		if v := r.PopulationForYear(year); v > 0 {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// CountryMetadata carries the descriptive fields joined onto population
// records by country code.
type CountryMetadata struct {
	Region       string
	IncomeGroup  string
	SpecialNotes string
}

// MapPopulationRow returns a mapper for population rows: country name, code,
// indicator name, indicator code, then one value column per year. Preamble
// and header rows (empty first field, "Data Source", "Country Name") and rows
// with fewer than 4 fields are skipped; value cells parse leniently, with
// empty or unparsable cells becoming 0. Records are enriched from meta by
// country code; meta may be nil.
func MapPopulationRow(meta map[string]CountryMetadata) MapFunc[PopulationRecord] {
	return func(fields []string) (PopulationRecord, bool) {
		if len(fields) < 4 {
			return PopulationRecord{}, false
		}
		switch fields[0] {
		case "", "Data Source", "Country Name":
			return PopulationRecord{}, false
		}

		record := PopulationRecord{
			CountryName:   fields[0],
			CountryCode:   fields[1],
			IndicatorName: fields[2],
			IndicatorCode: fields[3],
		}

		last := len(fields)
		if max := 4 + PopulationLastYear - PopulationBaseYear + 1; last > max {
			last = max
		}
		record.YearlyValues = make([]float64, 0, last-4)
		for _, cell := range fields[4:last] {
			record.YearlyValues = append(record.YearlyValues, toFloat(cell))
		}

		if m, ok := meta[record.CountryCode]; ok {
			record.Region = m.Region
			record.IncomeGroup = m.IncomeGroup
			record.SpecialNotes = m.SpecialNotes
		}
		return record, true
	}
}

const (
	popCountryIndex = "country"
	popRegionIndex  = "region"
	popIncomeIndex  = "income_group"
)

// PopulationData is the ingestion and query facade for population records:
// a collection indexed by country code, region, and income group, loaded
// from World-Bank-shaped CSV inputs under any strategy.
type PopulationData struct {
	engine *Engine
	source RecordSource
	col    *Collection[PopulationRecord]
}

// NewPopulationData returns an empty dataset backed by the given engine. A
// nil engine gets the default configuration.
func NewPopulationData(engine *Engine) *PopulationData {
	if engine == nil {
		engine, _ = NewEngine(DefaultEngineConfig())
	}

	return &PopulationData{
		engine: engine,
		source: NewCSVSource(),
		col: NewCollection(
			IndexSpec[PopulationRecord]{
				Name: popCountryIndex,
				Key:  func(r PopulationRecord) string { return r.CountryCode },
			},
			IndexSpec[PopulationRecord]{
				Name: popRegionIndex,
				Key:  func(r PopulationRecord) string { return r.Region },
			},
			IndexSpec[PopulationRecord]{
				Name: popIncomeIndex,
				Key:  func(r PopulationRecord) string { return r.IncomeGroup },
			},
		),
	}
}

// LoadFromPath ingests every population CSV under path under the chosen
// strategy. Files whose name contains "Metadata_" are never ingested as
// records: Metadata_Country files are parsed first and joined into records by
// country code (region, income group, special notes); other metadata files
// are ignored.
func (d *PopulationData) LoadFromPath(path string, strategy Strategy) (LoadStats, error) {
	inputs, err := d.source.ListInputs(path)
	if err != nil {
		return LoadStats{}, err
	}

	var dataFiles, metaFiles []string
	for _, input := range inputs {
		base := filepath.Base(input)
		switch {
		case strings.Contains(base, "Metadata_Country"):
			metaFiles = append(metaFiles, input)
		case strings.Contains(base, "Metadata_"):
			// indicator metadata carries nothing we index
		default:
			dataFiles = append(dataFiles, input)
		}
	}

	loader := &Loader[PopulationRecord]{
		Source: d.source,
		Map:    MapPopulationRow(d.loadCountryMetadata(metaFiles)),
		Engine: d.engine,
	}
	return loader.LoadFiles(d.col, dataFiles, strategy)
}

// loadCountryMetadata reads Metadata_Country inputs sequentially; they are
// small, and the join map must exist before record mapping starts. Unreadable
// inputs are skipped like any other bad input.
func (d *PopulationData) loadCountryMetadata(files []string) map[string]CountryMetadata {
	meta := make(map[string]CountryMetadata)
	for _, file := range files {
		rows, _, err := d.source.LoadOne(file)
		if err != nil {
			d.engine.log.Warn().Err(err).Str("path", file).Msg("skipping unreadable metadata input")
			continue
		}

		for _, row := range rows {
			if len(row) < 4 || row[0] == "" || row[0] == "Country Code" {
				continue
			}
			meta[row[0]] = CountryMetadata{
				Region:       row[1],
				IncomeGroup:  row[2],
				SpecialNotes: row[3],
			}
		}
	}
	return meta
}

// QueryByCountry returns every record for one country code via the secondary
// index.
func (d *PopulationData) QueryByCountry(code string) []PopulationRecord {
	return d.col.QueryExact(popCountryIndex, code)
}

// QueryByRegion returns every record for one region via the secondary index.
func (d *PopulationData) QueryByRegion(region string) []PopulationRecord {
	return d.col.QueryExact(popRegionIndex, region)
}

// QueryByIncomeGroup returns every record for one income group via the
// secondary index.
func (d *PopulationData) QueryByIncomeGroup(group string) []PopulationRecord {
	return d.col.QueryExact(popIncomeIndex, group)
}

// QueryByPopulationRange returns the records whose value for year lies in
// [min, max], scanning under the chosen strategy.
func (d *PopulationData) QueryByPopulationRange(min, max float64, year int, strategy Strategy) []PopulationRecord {
	pred := MatchNumeric(
		func(r PopulationRecord) float64 { return r.PopulationForYear(year) },
		NumericBetween(min, max),
	)
	return QueryPredicate(d.engine, d.col, strategy, pred)
}

// QueryByYearRange returns the records holding data (a value above 0) for at
// least one year in [startYear, endYear], scanning under the chosen strategy.
func (d *PopulationData) QueryByYearRange(startYear, endYear int, strategy Strategy) []PopulationRecord {
	return QueryPredicate(d.engine, d.col, strategy, func(r PopulationRecord) bool {
		for year := startYear; year <= endYear; year++ {
			if r.PopulationForYear(year) > 0 {
				return true
			}
		}
		return false
	})
}

// SummarizePopulation aggregates the values for one year across the records
// holding data for it, under the chosen strategy.
func (d *PopulationData) SummarizePopulation(year int, strategy Strategy) Summary {
	return Summarize(d.engine, d.col, strategy,
		func(r PopulationRecord) bool { return r.PopulationForYear(year) > 0 },
		func(r PopulationRecord) float64 { return r.PopulationForYear(year) })
}

// TotalPopulationForYear sums the values for one year across all records
// holding data for it.
func (d *PopulationData) TotalPopulationForYear(year int, strategy Strategy) float64 {
	return d.SummarizePopulation(year, strategy).Sum
}

// Collection exposes the underlying collection for ad-hoc queries and
// aggregation.
func (d *PopulationData) Collection() *Collection[PopulationRecord] {
	return d.col
}

// Size reports the number of loaded records.
func (d *PopulationData) Size() int {
	return d.col.Len()
}

// Clear drops all records and indexes.
func (d *PopulationData) Clear() {
	d.col.Clear()
}
