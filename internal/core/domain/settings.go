package domain

// LocationBias is a rectangular search bias for place queries.
type LocationBias struct {
	// LowLatitude and LowLongitude are the rectangle's south-west corner.
	LowLatitude  float64
	LowLongitude float64

	// HighLatitude and HighLongitude are the rectangle's north-east corner.
	HighLatitude  float64
	HighLongitude float64
}

// IsZero reports whether no bias is configured.
func (b LocationBias) IsZero() bool {
	return b == LocationBias{}
}

// Settings holds run-level configuration consumed by the pipelines.
// Per-service rate limits and concurrency live with the dispatchers;
// these are the knobs shared by collector and planner.
type Settings struct {
	// Dimensions is the embedding dimensionality. Every vector stored
	// and compared must have exactly this length.
	Dimensions int

	// TopK is the number of vendors returned per category.
	TopK int

	// Location biases place searches towards the event's area.
	Location LocationBias

	// QueriesPerCategory caps how many search queries are generated
	// for each vendor category.
	QueriesPerCategory int
}

// Normalised returns a copy with defaults applied to unset fields.
func (s Settings) Normalised() Settings {
	if s.Dimensions <= 0 {
		s.Dimensions = 1536
	}
	if s.TopK <= 0 {
		s.TopK = 20
	}
	if s.QueriesPerCategory <= 0 {
		s.QueriesPerCategory = 2
	}
	return s
}
