package telemetry

import "go.opentelemetry.io/otel/attribute"

// Shared attribute keys. Instrument code uses these instead of inline
// strings so the same label never forks into two spellings.
var (
	AttrUserID   = attribute.Key("user_id")
	AttrUserRole = attribute.Key("user_role")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")

	AttrSessionStatus = attribute.Key("session_status")
	AttrModality      = attribute.Key("modality")
	AttrDealStage     = attribute.Key("deal_stage")
	AttrCourseCode    = attribute.Key("course_code")
	AttrTrainerID     = attribute.Key("trainer_id")
)

// Histogram bucket boundaries, in seconds.
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

	// SmallDurationBuckets suit sub-millisecond work such as cache hits.
	SmallDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}
)
