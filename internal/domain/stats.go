package domain

import "time"

// ZoneStats - агрегированная статистика отчётов по зоне
type ZoneStats struct {
	Zone             string  `json:"zone"`
	TotalReports     int     `json:"total_reports"`
	PendingReports   int     `json:"pending_reports"`
	CompletedReports int     `json:"completed_reports"`
	HighSeverity     int     `json:"high_severity"`
	MediumSeverity   int     `json:"medium_severity"`
	LowSeverity      int     `json:"low_severity"`
	AvgAgeDays       float64 `json:"avg_age_days"`
}

// RHIGrade - буквенная оценка состояния дорог зоны
type RHIGrade string

const (
	GradeExcellent RHIGrade = "Excellent"
	GradeGood      RHIGrade = "Good"
	GradeFair      RHIGrade = "Fair"
	GradePoor      RHIGrade = "Poor"
	GradeCritical  RHIGrade = "Critical"
)

// RHIScore - Road Health Index зоны: численная оценка 0..100,
// где 100 - дороги без зарегистрированных повреждений
type RHIScore struct {
	Zone           string    `json:"zone"`
	Score          int       `json:"score"`
	Grade          RHIGrade  `json:"grade"`
	Metrics        ZoneStats `json:"metrics"`
	LastCalculated time.Time `json:"last_calculated"`
}
