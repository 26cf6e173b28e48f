package domain

import "time"

// ReportingMode - режим подачи отчёта
type ReportingMode string

const (
	ModeOnSite        ReportingMode = "on-site"
	ModeFromElsewhere ReportingMode = "from-elsewhere"
)

// Valid проверяет, что режим - один из поддерживаемых
func (m ReportingMode) Valid() bool {
	return m == ModeOnSite || m == ModeFromElsewhere
}

// DamageType - тип повреждения, определённый классификатором
type DamageType string

const (
	DamageCrack   DamageType = "crack"
	DamagePothole DamageType = "pothole"
	DamageOther   DamageType = "other"
	DamageManual  DamageType = "manual"
)

// SeverityLevel - степень серьёзности повреждения
type SeverityLevel string

const (
	SeverityLow    SeverityLevel = "low"
	SeverityMedium SeverityLevel = "medium"
	SeverityHigh   SeverityLevel = "high"
)

// SeverityFromConfidence - fallback-маппинг уверенности детектора в
// серьёзность, когда детектор серьёзность не вернул: >=0.8 high, >=0.6 medium
func SeverityFromConfidence(confidence float64) SeverityLevel {
	switch {
	case confidence >= 0.8:
		return SeverityHigh
	case confidence >= 0.6:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ReportStatus - статус жизненного цикла отчёта
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusCompleted  ReportStatus = "completed"
)

// Valid проверяет, что статус - один из поддерживаемых
func (s ReportStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// SyncStatus - статус синхронизации отчёта с облаком
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// BoundingBox - нормализованные координаты рамки повреждения на фото
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AIDetection - результат классификации фото внешним детектором
type AIDetection struct {
	DamageType  DamageType    `json:"damage_type"`
	Confidence  float64       `json:"confidence"`
	Severity    SeverityLevel `json:"severity"`
	BoundingBox *BoundingBox  `json:"bounding_box,omitempty"`
}

// noDamageConfidence - порог уверенности, ниже которого результат
// "other" трактуется как "повреждение не обнаружено". Граница строгая:
// confidence 0.3 уже проходит дальше.
const noDamageConfidence = 0.3

// IsNoDamage возвращает true, если детектор фактически ничего не нашёл:
// generic-категория "other" с уверенностью ниже порога. Любой другой
// результат, включая low-confidence crack/pothole, считается обнаружением.
func (d *AIDetection) IsNoDamage() bool {
	if d == nil {
		return true
	}
	return d.DamageType == DamageOther && d.Confidence < noDamageConfidence
}

// Report - отчёт гражданина о повреждении дороги.
// Создаётся визардом один раз; статус далее меняется только workflow'ами
// RSO/Admin через UpdateStatus.
type Report struct {
	ID            string        `json:"id" db:"id"`
	CitizenID     string        `json:"citizen_id" db:"citizen_id"`
	ReportingMode ReportingMode `json:"reporting_mode" db:"reporting_mode"`
	Location      Location      `json:"location"`
	PhotoURL      string        `json:"photo_url" db:"photo_url"`
	AIDetection   *AIDetection  `json:"ai_detection,omitempty"`
	Status        ReportStatus  `json:"status" db:"status"`
	SyncStatus    SyncStatus    `json:"sync_status" db:"sync_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
