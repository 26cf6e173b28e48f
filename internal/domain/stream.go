package domain

import "time"

// Stream names (должны совпадать с downstream-пайплайнами муниципалитета)
const (
	StreamReportSubmitted = "stream:report:submitted"
)

// ReportSubmittedEvent - событие об успешно сохранённом отчёте.
// Публикуется в Redis Stream на submit и ретранслируется воркером
// в RabbitMQ для пайплайнов анализа и уведомлений.
type ReportSubmittedEvent struct {
	ReportID    string        `json:"report_id"`
	CitizenID   string        `json:"citizen_id"`
	Zone        string        `json:"zone"`
	DamageType  DamageType    `json:"damage_type"`
	Severity    SeverityLevel `json:"severity"`
	PhotoURL    string        `json:"photo_url"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// StreamMessage - сырое сообщение из Redis Stream
type StreamMessage struct {
	ID     string
	Values map[string]interface{}
}
