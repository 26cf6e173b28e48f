package domain

import "time"

// FlowState - состояние визарда подачи отчёта
type FlowState string

const (
	StateMode     FlowState = "mode"
	StatePhoto    FlowState = "photo"
	StateLocation FlowState = "location"
	StateAI       FlowState = "ai"
	StateConfirm  FlowState = "confirm"
)

// Photo - фото, прикреплённое к визарду, до загрузки в облако
type Photo struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

// Flow - состояние одного прохода визарда подачи отчёта.
// Живёт только в памяти процесса и уничтожается при выходе из визарда;
// после успешной отправки остаётся только Report.
//
// ReportID генерируется один раз при создании flow: повторная отправка
// после сбоя переиспользует тот же id и уже загруженное фото (идемпотентный
// retry, без дубликатов в object storage).
type Flow struct {
	ID            string        `json:"id"`
	ReportID      string        `json:"report_id"`
	CitizenID     string        `json:"citizen_id"`
	State         FlowState     `json:"state"`
	ReportingMode ReportingMode `json:"reporting_mode"`
	Photo         *Photo        `json:"photo,omitempty"`
	PhotoURL      string        `json:"photo_url,omitempty"`
	Location      *Location     `json:"location,omitempty"`
	ManualAddress string        `json:"manual_address,omitempty"`
	Detection     *AIDetection  `json:"detection,omitempty"`

	// PendingDecision выставляется, когда детектор вернул "no damage"
	// и визард ждёт выбора пользователя: переснять или выйти.
	PendingDecision bool `json:"pending_decision,omitempty"`

	// LocationError хранит ошибку фонового определения локации;
	// транзиция photo->location от неё не зависит.
	LocationError string `json:"location_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanTransition проверяет допустимость перехода из текущего состояния
func (f *Flow) CanTransition(to FlowState) bool {
	switch f.State {
	case StateMode:
		return to == StatePhoto
	case StatePhoto:
		return to == StateLocation
	case StateLocation:
		return to == StateAI
	case StateAI:
		// ai -> confirm при успешной классификации,
		// ai -> photo при "no damage" / ошибке детектора
		return to == StateConfirm || to == StatePhoto
	case StateConfirm:
		return false
	}
	return false
}
