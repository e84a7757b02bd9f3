package reporting

// Summary holds the headline dashboard figures.
type Summary struct {
	TotalPatients      int64   `json:"total_patients"`
	TodaysAppointments int64   `json:"todays_appointments"`
	AverageAge         float64 `json:"average_age"`
	TotalRevenue       float64 `json:"total_revenue"`
}

// CategoryCount is one group of a count-by-key query.
type CategoryCount struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// MonthCount is one (year, month) group.
type MonthCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// TypeRevenue is the completed revenue of one consultation type.
type TypeRevenue struct {
	Type  string  `json:"consultation_type" bson:"_id"`
	Total float64 `json:"total" bson:"total"`
	Count int64   `json:"count" bson:"count"`
}

// Breakdown is a categorical result. NoData is set when there was nothing
// to count, which is different from a set of zero buckets.
type Breakdown struct {
	NoData  bool            `json:"no_data"`
	Buckets []CategoryCount `json:"buckets"`
}

// Bin covers ages in [Lower, Upper); the last bin also includes Upper.
type Bin struct {
	Lower int   `json:"lower"`
	Upper int   `json:"upper"`
	Count int64 `json:"count"`
}

type Histogram struct {
	NoData bool  `json:"no_data"`
	Bins   []Bin `json:"bins"`
}

type MonthlySeries struct {
	NoData bool         `json:"no_data"`
	Points []MonthCount `json:"points"`
}

type RevenueBreakdown struct {
	NoData  bool          `json:"no_data"`
	Buckets []TypeRevenue `json:"buckets"`
}
