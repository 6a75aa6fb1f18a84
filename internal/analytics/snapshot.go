package analytics

// Snapshot is the complete result of one aggregation run. It is built
// fresh on every invocation and never mutated afterwards. Field names
// are part of the dashboard contract; renaming any of them breaks
// consumers.
type Snapshot struct {
	Summary              Summary             `json:"summary"`
	DailyTrend           []DailyTrendPoint   `json:"dailyTrend"`
	TypeDistribution     []TypeCount         `json:"typeDistribution"`
	HeatmapData          []HeatmapCell       `json:"heatmapData"`
	GenderDistribution   []GenderCount       `json:"genderDistribution"`
	AgeDistribution      []AgeBandCount      `json:"ageDistribution"`
	DoctorUtilization    []DoctorUtilization `json:"doctorUtilization"`
	MonthlyRegistrations []MonthCount        `json:"monthlyRegistrations"`
	NoShowTrend          []WeekRate          `json:"noShowTrend"`
}

type Summary struct {
	TotalPatients     int     `json:"totalPatients"`
	TotalDoctors      int     `json:"totalDoctors"`
	TotalAppointments int     `json:"totalAppointments"`
	TodayAppointments int     `json:"todayAppointments"`
	CompletedCount    int     `json:"completedCount"`
	NoShowCount       int     `json:"noShowCount"`
	ScheduledCount    int     `json:"scheduledCount"`
	CancelledCount    int     `json:"cancelledCount"`
	NoShowRate        float64 `json:"noShowRate"`
	AvgWaitTime       float64 `json:"avgWaitTime"`
}

type DailyTrendPoint struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
	Completed    int    `json:"completed"`
	NoShow       int    `json:"noShow"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type HeatmapCell struct {
	Day   string `json:"day"`
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
}

type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

type AgeBandCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type DoctorUtilization struct {
	Name              string  `json:"name"`
	Specialty         string  `json:"specialty"`
	TotalAppointments int     `json:"totalAppointments"`
	Completed         int     `json:"completed"`
	Utilization       float64 `json:"utilization"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type WeekRate struct {
	Week string  `json:"week"`
	Rate float64 `json:"rate"`
}
