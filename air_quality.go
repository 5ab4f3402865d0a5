package triscan

// AirQualityRecord is one hourly sensor reading: the 13-column feed layout of
// latitude, longitude, UTC timestamp, pollutant, concentration, unit, raw
// concentration, AQI, category, site name, agency name, AQS ID, full AQS ID.
type AirQualityRecord struct {
	Latitude         float64
	Longitude        float64
	UTC              string
	Pollutant        string
	Concentration    float64
	Unit             string
	RawConcentration float64
	AQI              int
	Category         int
	SiteName         string
	AgencyName       string
	AQSID            string
	FullAQSID        string
}

// MapAirQualityRow maps one row of fields into an AirQualityRecord. Rows with
// fewer than 13 fields are skipped; numeric cells parse leniently, with
// unparsable values becoming 0.
func MapAirQualityRow(fields []string) (AirQualityRecord, bool) {
	if len(fields) < 13 {
		return AirQualityRecord{}, false
	}

	return AirQualityRecord{
		Latitude:         toFloat(fields[0]),
		Longitude:        toFloat(fields[1]),
		UTC:              fields[2],
		Pollutant:        fields[3],
		Concentration:    toFloat(fields[4]),
		Unit:             fields[5],
		RawConcentration: toFloat(fields[6]),
		AQI:              toInt(fields[7]),
		Category:         toInt(fields[8]),
		SiteName:         fields[9],
		AgencyName:       fields[10],
		AQSID:            fields[11],
		FullAQSID:        fields[12],
	}, true
}

const airPollutantIndex = "pollutant"

// AirQualityData is the ingestion and query facade for air-quality sensor
// readings: a record collection indexed by pollutant, loaded from CSV inputs
// under any strategy.
type AirQualityData struct {
	engine *Engine
	col    *Collection[AirQualityRecord]
	loader *Loader[AirQualityRecord]
}

// NewAirQualityData returns an empty dataset backed by the given engine. A
// nil engine gets the default configuration.
func NewAirQualityData(engine *Engine) *AirQualityData {
	if engine == nil {
		engine, _ = NewEngine(DefaultEngineConfig())
	}

	col := NewCollection(IndexSpec[AirQualityRecord]{
		Name: airPollutantIndex,
		Key:  func(r AirQualityRecord) string { return r.Pollutant },
	})

	return &AirQualityData{
		engine: engine,
		col:    col,
		loader: &Loader[AirQualityRecord]{
			Source: NewCSVSource(),
			Map:    MapAirQualityRow,
			Engine: engine,
		},
	}
}

// LoadFromPath ingests every CSV input under path (a single file or a
// directory walked recursively) under the chosen strategy, then rebuilds the
// pollutant index.
func (d *AirQualityData) LoadFromPath(path string, strategy Strategy) (LoadStats, error) {
	return d.loader.LoadInto(d.col, path, strategy)
}

// QueryByPollutant returns every reading for one pollutant via the secondary
// index.
func (d *AirQualityData) QueryByPollutant(pollutant string) []AirQualityRecord {
	return d.col.QueryExact(airPollutantIndex, pollutant)
}

// QueryByConcentrationRange returns the readings whose concentration lies in
// [min, max], scanning under the chosen strategy.
func (d *AirQualityData) QueryByConcentrationRange(min, max float64, strategy Strategy) []AirQualityRecord {
	pred := MatchNumeric(
		func(r AirQualityRecord) float64 { return r.Concentration },
		NumericBetween(min, max),
	)
	return QueryPredicate(d.engine, d.col, strategy, pred)
}

// SummarizeConcentration aggregates concentration statistics for one
// pollutant under the chosen strategy.
func (d *AirQualityData) SummarizeConcentration(pollutant string, strategy Strategy) Summary {
	pred := MatchString(
		func(r AirQualityRecord) string { return r.Pollutant },
		StringEquals(pollutant),
	)
	return Summarize(d.engine, d.col, strategy, pred,
		func(r AirQualityRecord) float64 { return r.Concentration })
}

// Collection exposes the underlying collection for ad-hoc queries and
// aggregation.
func (d *AirQualityData) Collection() *Collection[AirQualityRecord] {
	return d.col
}

// Size reports the number of loaded readings.
func (d *AirQualityData) Size() int {
	return d.col.Len()
}

// Clear drops all readings and indexes.
func (d *AirQualityData) Clear() {
	d.col.Clear()
}
