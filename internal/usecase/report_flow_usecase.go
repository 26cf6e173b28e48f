package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/pkg/photo"
	"github.com/report-microservice/internal/pkg/utils"
	"github.com/report-microservice/internal/usecase/dto"
	"github.com/report-microservice/internal/zone"
)

// StartFlowInput - вход создания черновика. Photo+Detection вместе дают
// "быстрый вход": визард стартует сразу в confirm (фото уже снято и
// проанализировано на устройстве).
type StartFlowInput struct {
	Mode      string
	Photo     *domain.Photo
	Detection *domain.AIDetection
	Lat       *float64
	Lon       *float64
}

// ReportFlowUseCase - use case визарда подачи отчёта о повреждении
type ReportFlowUseCase struct {
	store        *FlowStore
	locator      *zone.Locator
	classifier   repository.ClassifierRepository
	geocoder     repository.GeocoderRepository
	storage      repository.StorageRepository
	connectivity repository.ConnectivityRepository
	reportRepo   repository.ReportRepository
	streamRepo   repository.StreamRepository
	logger       *zap.Logger
}

// NewReportFlowUseCase - создание нового ReportFlowUseCase
func NewReportFlowUseCase(
	store *FlowStore,
	locator *zone.Locator,
	classifierRepo repository.ClassifierRepository,
	geocoderRepo repository.GeocoderRepository,
	storageRepo repository.StorageRepository,
	connectivityRepo repository.ConnectivityRepository,
	reportRepo repository.ReportRepository,
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
) *ReportFlowUseCase {
	return &ReportFlowUseCase{
		store:        store,
		locator:      locator,
		classifier:   classifierRepo,
		geocoder:     geocoderRepo,
		storage:      storageRepo,
		connectivity: connectivityRepo,
		reportRepo:   reportRepo,
		streamRepo:   streamRepo,
		logger:       logger,
	}
}

// StartFlow создаёт новый черновик отчёта.
// ReportID генерируется здесь и больше не меняется: все retry отправки
// переиспользуют его (идемпотентность на уровне БД и object storage).
func (uc *ReportFlowUseCase) StartFlow(ctx context.Context, citizenID string, in StartFlowInput) (*dto.FlowResponse, error) {
	now := time.Now()
	flow := &domain.Flow{
		ID:        uuid.New().String(),
		ReportID:  uuid.New().String(),
		CitizenID: citizenID,
		State:     domain.StateMode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Mode != "" {
		mode := domain.ReportingMode(in.Mode)
		if !mode.Valid() {
			return nil, errors.ErrInvalidReportingMode
		}
		flow.ReportingMode = mode
	}

	// Быстрый вход требует пару фото+детекция: половинчатый запрос
	// отклоняется, иначе присланные байты молча пропали бы
	if (in.Photo != nil) != (in.Detection != nil) {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "fast entry requires both photo and detection",
		})
	}

	// Быстрый вход: фото уже снято и проанализировано на устройстве,
	// визард стартует сразу в confirm
	if in.Photo != nil && in.Detection != nil {
		if flow.ReportingMode == "" {
			flow.ReportingMode = domain.ModeOnSite
		}
		normalizeDetection(in.Detection)
		flow.Photo = in.Photo
		flow.Detection = in.Detection
		flow.State = domain.StateConfirm
	}

	uc.store.Put(flow)
	uc.logger.Info("Flow started",
		zap.String("flow_id", flow.ID),
		zap.String("report_id", flow.ReportID),
		zap.String("state", string(flow.State)))

	if flow.State == domain.StateConfirm {
		uc.startLocationCapture(flow.ID, in.Lat, in.Lon, in.Photo)
	}

	return dto.NewFlowResponse(flow), nil
}

// GetFlow возвращает текущее состояние черновика
func (uc *ReportFlowUseCase) GetFlow(ctx context.Context, citizenID, flowID string) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	return dto.NewFlowResponse(flow), nil
}

// SelectMode фиксирует режим подачи и переводит mode -> photo
func (uc *ReportFlowUseCase) SelectMode(ctx context.Context, citizenID, flowID string, req dto.SelectModeRequest) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}

	mode := domain.ReportingMode(req.Mode)
	if !mode.Valid() {
		return nil, errors.ErrInvalidReportingMode
	}
	if !flow.CanTransition(domain.StatePhoto) {
		return nil, errors.ErrInvalidTransition
	}

	uc.store.Update(flowID, func(f *domain.Flow) {
		f.ReportingMode = mode
		f.State = domain.StatePhoto
	})

	return uc.GetFlow(ctx, citizenID, flowID)
}

// AttachPhoto сохраняет фото и переводит photo -> location.
// Определение локации запускается фоном и перехода не блокирует.
func (uc *ReportFlowUseCase) AttachPhoto(ctx context.Context, citizenID, flowID string, p *domain.Photo, lat, lon *float64) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	if p == nil || len(p.Data) == 0 {
		return nil, errors.ErrPhotoRequired
	}
	if !flow.CanTransition(domain.StateLocation) {
		return nil, errors.ErrInvalidTransition
	}

	uc.store.Update(flowID, func(f *domain.Flow) {
		f.Photo = p
		// Новое фото обнуляет результат прошлой загрузки: retry submit
		// не должен подставить старый URL под новый снимок
		f.PhotoURL = ""
		f.Detection = nil
		f.LocationError = ""
		f.State = domain.StateLocation
	})

	uc.startLocationCapture(flowID, lat, lon, p)

	return uc.GetFlow(ctx, citizenID, flowID)
}

// RefreshLocation повторно запускает захват локации по свежим координатам
// (сценарий from-elsewhere: пользователь довёл карту до нужного места)
func (uc *ReportFlowUseCase) RefreshLocation(ctx context.Context, citizenID, flowID string, req dto.RefreshLocationRequest) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != domain.StateLocation && flow.State != domain.StateConfirm {
		return nil, errors.ErrInvalidTransition
	}
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	uc.store.Update(flowID, func(f *domain.Flow) {
		f.LocationError = ""
	})
	uc.startLocationCapture(flowID, &req.Lat, &req.Lon, nil)

	return uc.GetFlow(ctx, citizenID, flowID)
}

// ConfirmLocation подтверждает локацию и запускает классификацию фото.
// В режиме from-elsewhere пустой адрес отклоняется локально, без сети
// и без смены состояния.
func (uc *ReportFlowUseCase) ConfirmLocation(ctx context.Context, citizenID, flowID string, req dto.ConfirmLocationRequest) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	if !flow.CanTransition(domain.StateAI) {
		return nil, errors.ErrInvalidTransition
	}
	if flow.Photo == nil {
		return nil, errors.ErrPhotoRequired
	}

	if req.Zone != "" && !uc.locator.Exists(req.Zone) {
		return nil, errors.ErrUnknownZone
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		return nil, errors.ErrInvalidCoordinates
	}
	if req.Lat != nil && !utils.ValidateCoordinates(*req.Lat, *req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	if flow.ReportingMode == domain.ModeFromElsewhere {
		address := req.Address
		if address == "" && flow.Location != nil {
			address = flow.Location.Address
		}
		if address == "" {
			return nil, errors.ErrAddressRequired
		}
	}

	// Покидаем location: поздний результат фонового захвата
	// не должен перетереть подтверждённую локацию
	uc.store.CancelCapture(flowID)

	uc.store.Update(flowID, func(f *domain.Flow) {
		// Location заменяется целиком: снапшоты из Get делят
		// старый указатель с читателями
		loc := domain.Location{}
		if f.Location != nil {
			loc = *f.Location
		}
		if req.Lat != nil {
			loc.Latitude = *req.Lat
			loc.Longitude = *req.Lon
		}
		if req.Address != "" {
			loc.Address = req.Address
			f.ManualAddress = req.Address
		}
		if req.Zone != "" {
			loc.Zone = req.Zone
		}
		f.Location = &loc
		f.State = domain.StateAI
	})

	detection, err := uc.classifier.Classify(ctx, flow.Photo)
	if err != nil {
		// Ошибка детектора возвращает визард к фото
		uc.store.Update(flowID, func(f *domain.Flow) {
			f.State = domain.StatePhoto
		})
		uc.logger.Error("Classification failed",
			zap.String("flow_id", flowID),
			zap.Error(err))
		return nil, err
	}

	normalizeDetection(detection)

	uc.store.Update(flowID, func(f *domain.Flow) {
		f.Detection = detection
		if detection.IsNoDamage() {
			// Ждём решения пользователя: переснять или выйти
			f.PendingDecision = true
		} else {
			f.State = domain.StateConfirm
		}
	})

	return uc.GetFlow(ctx, citizenID, flowID)
}

// ResolveNoDamage обрабатывает выбор пользователя после вердикта
// "повреждений нет": retake возвращает к фото, cancel закрывает визард
func (uc *ReportFlowUseCase) ResolveNoDamage(ctx context.Context, citizenID, flowID string, req dto.ResolveDecisionRequest) (*dto.FlowResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != domain.StateAI || !flow.PendingDecision {
		return nil, errors.ErrInvalidTransition
	}

	switch req.Action {
	case "retake":
		uc.store.Update(flowID, func(f *domain.Flow) {
			f.Photo = nil
			f.PhotoURL = ""
			f.Detection = nil
			f.PendingDecision = false
			f.State = domain.StatePhoto
		})
		return uc.GetFlow(ctx, citizenID, flowID)
	case "cancel":
		uc.store.Delete(flowID)
		uc.logger.Info("Flow discarded after no-damage verdict",
			zap.String("flow_id", flowID))
		return nil, nil
	default:
		return nil, errors.ErrInvalidRequest
	}
}

// Submit выполняет финальный пайплайн отправки отчёта.
// Любой сбой оставляет визард в confirm: пользователь жмёт submit снова,
// и уже пройденные шаги (загрузка фото) не повторяются.
func (uc *ReportFlowUseCase) Submit(ctx context.Context, citizenID, flowID string) (*dto.ReportResponse, error) {
	flow, err := uc.ownedFlow(citizenID, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != domain.StateConfirm {
		return nil, errors.ErrInvalidTransition
	}
	if flow.Photo == nil && flow.PhotoURL == "" {
		return nil, errors.ErrPhotoRequired
	}

	// 1. Проба доступности облака
	if !uc.connectivity.IsReachable(ctx) {
		return nil, errors.ErrNoConnection
	}

	// 2. Загрузка фото (пропускается, если уже загружено прошлым retry)
	photoURL := flow.PhotoURL
	if photoURL == "" {
		photoURL, err = uc.storage.Upload(ctx, flow.Photo, flow.ReportID)
		if err != nil {
			uc.logger.Error("Photo upload failed",
				zap.String("flow_id", flowID),
				zap.Error(err))
			return nil, err
		}
		uc.store.Update(flowID, func(f *domain.Flow) {
			f.PhotoURL = photoURL
		})
	}

	// 3. Разрешение зоны: явная -> по координатам -> по умолчанию
	location := domain.Location{}
	if flow.Location != nil {
		location = *flow.Location
	}
	if location.Zone == "" {
		if location.HasCoordinates() {
			location.Zone = uc.locator.DetectZone(location.Latitude, location.Longitude)
		} else {
			location.Zone = uc.locator.DefaultZone()
		}
	}

	// 4. Сборка и сохранение отчёта
	now := time.Now()
	report := &domain.Report{
		ID:            flow.ReportID,
		CitizenID:     flow.CitizenID,
		ReportingMode: flow.ReportingMode,
		Location:      location,
		PhotoURL:      photoURL,
		AIDetection:   flow.Detection,
		Status:        domain.StatusPending,
		SyncStatus:    domain.SyncSynced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.reportRepo.Save(ctx, report); err != nil {
		uc.logger.Error("Report persistence failed",
			zap.String("flow_id", flowID),
			zap.String("report_id", report.ID),
			zap.Error(err))
		return nil, err
	}

	// 5. Событие для downstream-пайплайнов; сбой публикации
	// не откатывает уже сохранённый отчёт
	event := domain.ReportSubmittedEvent{
		ReportID:    report.ID,
		CitizenID:   report.CitizenID,
		Zone:        report.Location.Zone,
		PhotoURL:    report.PhotoURL,
		SubmittedAt: now,
	}
	if report.AIDetection != nil {
		event.DamageType = report.AIDetection.DamageType
		event.Severity = report.AIDetection.Severity
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamReportSubmitted, event); err != nil {
		uc.logger.Warn("Failed to publish submitted event",
			zap.String("report_id", report.ID),
			zap.Error(err))
	}

	uc.store.Delete(flowID)
	uc.logger.Info("Report submitted",
		zap.String("report_id", report.ID),
		zap.String("zone", report.Location.Zone))

	resp := dto.NewReportResponse(report)
	return &resp, nil
}

// Cancel закрывает визард и уничтожает черновик
func (uc *ReportFlowUseCase) Cancel(ctx context.Context, citizenID, flowID string) error {
	if _, err := uc.ownedFlow(citizenID, flowID); err != nil {
		return err
	}
	uc.store.Delete(flowID)
	uc.logger.Info("Flow cancelled", zap.String("flow_id", flowID))
	return nil
}

// ownedFlow возвращает черновик, если он существует и принадлежит
// вызывающему. Чужой flow неотличим от несуществующего.
func (uc *ReportFlowUseCase) ownedFlow(citizenID, flowID string) (*domain.Flow, error) {
	flow := uc.store.Get(flowID)
	if flow == nil || flow.CitizenID != citizenID {
		return nil, errors.ErrFlowNotFound
	}
	return flow, nil
}

// startLocationCapture запускает фоновое определение локации: обратное
// геокодирование плюс назначение зоны. Координаты берутся из запроса,
// иначе из EXIF фото. Задача отменяемая: SetCapture гасит предыдущую,
// а поздний результат отменённой задачи не записывается.
func (uc *ReportFlowUseCase) startLocationCapture(flowID string, lat, lon *float64, p *domain.Photo) {
	var clat, clon float64
	switch {
	case lat != nil && lon != nil && utils.ValidateCoordinates(*lat, *lon):
		clat, clon = *lat, *lon
	case p != nil:
		var ok bool
		clat, clon, ok = photo.GPSFromEXIF(p.Data)
		if !ok {
			uc.store.Update(flowID, func(f *domain.Flow) {
				f.LocationError = "coordinates unavailable"
			})
			return
		}
	default:
		uc.store.Update(flowID, func(f *domain.Flow) {
			f.LocationError = "coordinates unavailable"
		})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	uc.store.SetCapture(flowID, cancel)

	go func() {
		defer cancel()

		location, err := uc.geocoder.ReverseGeocode(ctx, clat, clon)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Геокодер не критичен: локация остаётся с одними координатами
			uc.logger.Warn("Reverse geocoding failed",
				zap.String("flow_id", flowID),
				zap.Error(err))
			location = &domain.Location{Latitude: clat, Longitude: clon}
		}
		location.Zone = uc.locator.DetectZone(clat, clon)

		uc.store.Update(flowID, func(f *domain.Flow) {
			if ctx.Err() != nil {
				// Задачу отменили, пока мы ходили в геокодер
				return
			}
			// Ручные правки пользователя важнее фонового результата
			if f.ManualAddress != "" {
				location.Address = f.ManualAddress
			}
			f.Location = location
			f.LocationError = ""
		})
	}()
}

// normalizeDetection дополняет результат классификации severity по
// уверенности, если детектор её не прислал
func normalizeDetection(d *domain.AIDetection) {
	if d == nil {
		return
	}
	if d.Severity == "" {
		d.Severity = domain.SeverityFromConfidence(d.Confidence)
	}
}
