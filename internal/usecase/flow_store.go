package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
)

// flowEntry - черновик плюс cancel его фоновой задачи определения локации
type flowEntry struct {
	flow      *domain.Flow
	expiresAt time.Time
	cancel    context.CancelFunc
}

// FlowStore - in-memory хранилище активных визардов с TTL.
// Черновики намеренно не персистятся: брошенный визард исчезает вместе
// с TTL, а значит не оставляет мусора ни в БД, ни в object storage.
type FlowStore struct {
	mu      sync.RWMutex
	entries map[string]*flowEntry
	ttl     time.Duration
	logger  *zap.Logger
	done    chan struct{}
	once    sync.Once
}

// NewFlowStore создаёт хранилище и запускает janitor просроченных черновиков
func NewFlowStore(ttl time.Duration, logger *zap.Logger) *FlowStore {
	s := &FlowStore{
		entries: make(map[string]*flowEntry),
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put сохраняет черновик и сбрасывает его TTL
func (s *FlowStore) Put(flow *domain.Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[flow.ID]
	if !ok {
		entry = &flowEntry{}
		s.entries[flow.ID] = entry
	}
	entry.flow = flow
	entry.expiresAt = time.Now().Add(s.ttl)
}

// Get возвращает снапшот черновика по id; nil - если нет или просрочен.
// Возвращается копия: Photo/Location/Detection в Update всегда заменяются
// целиком, поэтому shallow copy безопасна для чтения.
func (s *FlowStore) Get(id string) *domain.Flow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	snapshot := *entry.flow
	return &snapshot
}

// Update атомарно меняет черновик под блокировкой хранилища.
// Все мутации flow идут через Update: фоновая задача определения локации
// и HTTP-обработчики пишут в один и тот же объект.
func (s *FlowStore) Update(id string, fn func(flow *domain.Flow)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}
	fn(entry.flow)
	entry.flow.UpdatedAt = time.Now()
	entry.expiresAt = time.Now().Add(s.ttl)
	return true
}

// Delete удаляет черновик и отменяет его фоновую задачу
func (s *FlowStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
}

// SetCapture привязывает cancel фоновой задачи к черновику.
// Предыдущая задача (если была) отменяется: её поздний результат
// не должен перезаписать более свежие данные.
func (s *FlowStore) SetCapture(id string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		cancel()
		return
	}
	if entry.cancel != nil {
		entry.cancel()
	}
	entry.cancel = cancel
}

// CancelCapture отменяет фоновую задачу черновика, если она есть
func (s *FlowStore) CancelCapture(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.cancel == nil {
		return
	}
	entry.cancel()
	entry.cancel = nil
}

// Close останавливает janitor и отменяет все фоновые задачи
func (s *FlowStore) Close() {
	s.once.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		s.remove(id)
	}
}

// remove удаляет запись; вызывается под mu
func (s *FlowStore) remove(id string) {
	entry, ok := s.entries[id]
	if !ok {
		return
	}
	if entry.cancel != nil {
		entry.cancel()
	}
	delete(s.entries, id)
}

// janitor периодически выметает просроченные черновики
func (s *FlowStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.entries {
				if now.After(entry.expiresAt) {
					s.remove(id)
					s.logger.Debug("Expired flow evicted", zap.String("flow_id", id))
				}
			}
			s.mu.Unlock()
		}
	}
}
