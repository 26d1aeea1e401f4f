package wellness

import (
	"fmt"
	"time"
)

type SleepReport struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Hours     float64   `json:"hours"`
	Quality   int       `json:"quality"`
}

type SorenessReport struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	Location  string    `json:"location"`
}

type WeightReport struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Weight    float64   `json:"weight"`
}

// Report (DB level type) flattens the typed wellness reports into one
// row, such as:
//   - sleep report (with hours slept and a 1-5 quality mark)
//   - soreness report (with level and body location)
//   - body weight report (with weight in kilos)
type Report struct {
	ID        int               `json:"id"`
	UserID    int               `json:"userId"`
	Type      ReportType        `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

func NewSleepReport(sr SleepReport) Report {
	return Report{
		ID:        sr.ID,
		UserID:    sr.UserID,
		Type:      ReportTypeSleep,
		Timestamp: sr.Timestamp,
		Data: map[string]string{
			"hours":   fmt.Sprintf("%.1f", sr.Hours),
			"quality": fmt.Sprintf("%d", sr.Quality),
		},
	}
}

func NewSorenessReport(sr SorenessReport) Report {
	return Report{
		ID:        sr.ID,
		UserID:    sr.UserID,
		Type:      ReportTypeSoreness,
		Timestamp: sr.Timestamp,
		Data: map[string]string{
			"level":    fmt.Sprintf("%d", sr.Level),
			"location": sr.Location,
		},
	}
}

func NewWeightReport(wr WeightReport) Report {
	return Report{
		ID:        wr.ID,
		UserID:    wr.UserID,
		Type:      ReportTypeWeight,
		Timestamp: wr.Timestamp,
		Data: map[string]string{
			"weight": fmt.Sprintf("%.1f", wr.Weight),
		},
	}
}

// ReportType can be one of:
//   - sleep_report
//   - soreness_report
//   - weight_report
type ReportType string

const (
	ReportTypeSleep    ReportType = "sleep_report"
	ReportTypeSoreness ReportType = "soreness_report"
	ReportTypeWeight   ReportType = "weight_report"
)

func (rt ReportType) String() string {
	return string(rt)
}

func (rt ReportType) IsValid() bool {
	switch rt {
	case ReportTypeSleep, ReportTypeSoreness, ReportTypeWeight:
		return true
	default:
		return false
	}
}
