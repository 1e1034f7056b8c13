package checklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	checklistRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/checklist"
)

const (
	skipNoTemplate = "no_template"
	skipError      = "error"
)

type nopMetrics struct{}

func (nopMetrics) RecordChecklistSeeded()        {}
func (nopMetrics) RecordChecklistSkipped(string) {}

// Seeder копирует шаблон чек-листа услуги в чек-лист конкретного бронирования
type Seeder struct {
	repo      Repository
	txManager TransactionManager
	metrics   Metrics
	logger    Logger
}

// NewSeeder создает сидер чек-листов
func NewSeeder(repo Repository, txManager TransactionManager, metrics Metrics, logger Logger) *Seeder {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Seeder{
		repo:      repo,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// Seed создает чек-лист бронирования по первому активному шаблону услуги.
// Если шаблона нет, возвращает (nil, nil): отсутствие шаблона не ошибка.
// Чек-лист и все строки результатов пишутся в одной транзакции,
// строки результатов - одним пакетным INSERT.
func (s *Seeder) Seed(ctx context.Context, bookingID, serviceID int64) (*domain.MaintenanceChecklist, error) {
	// 1. Ищем активный шаблон услуги
	tpl, err := s.repo.GetActiveTemplateByServiceID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, checklistRepo.ErrTemplateNotFound) {
			s.metrics.RecordChecklistSkipped(skipNoTemplate)
			s.logger.Info("Seed: no active checklist template for service=%d, booking=%d", serviceID, bookingID)
			return nil, nil
		}
		s.metrics.RecordChecklistSkipped(skipError)
		return nil, fmt.Errorf("%w: Seed - get template: %v", ErrInternal, err)
	}

	// 2. Загружаем пункты шаблона
	items, err := s.repo.GetTemplateItems(ctx, tpl.ID)
	if err != nil {
		s.metrics.RecordChecklistSkipped(skipError)
		return nil, fmt.Errorf("%w: Seed - get template items: %v", ErrInternal, err)
	}

	// 3. Создаем чек-лист и строки результатов атомарно
	var created *domain.MaintenanceChecklist
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		checklist, err := s.repo.CreateChecklist(ctx, &domain.MaintenanceChecklist{
			BookingID:  bookingID,
			TemplateID: tpl.ID,
			Status:     domain.ChecklistStatusPending,
		})
		if err != nil {
			return err
		}

		results := make([]*domain.MaintenanceChecklistResult, 0, len(items))
		for _, item := range items {
			results = append(results, &domain.MaintenanceChecklistResult{
				ChecklistID: checklist.ID,
				PartID:      item.PartID,
				PartName:    item.PartName,
				Description: item.Description,
				Status:      domain.ChecklistStatusPending,
			})
		}

		if err := s.repo.CreateResults(ctx, results); err != nil {
			return err
		}

		checklist.ResultCount = len(results)
		created = checklist
		return nil
	})
	if err != nil {
		s.metrics.RecordChecklistSkipped(skipError)
		return nil, fmt.Errorf("%w: Seed - create checklist: %v", ErrInternal, err)
	}

	s.metrics.RecordChecklistSeeded()
	s.logger.Info("Seed: checklist id=%d seeded for booking=%d from template=%d with %d items",
		created.ID, bookingID, tpl.ID, created.ResultCount)
	return created, nil
}

// CancelForBooking переводит чек-лист бронирования и его результаты в CANCELLED.
// Возвращает false, если чек-листа нет.
func (s *Seeder) CancelForBooking(ctx context.Context, bookingID int64) (bool, error) {
	cancelled, err := s.repo.CancelByBookingID(ctx, bookingID)
	if err != nil {
		return false, fmt.Errorf("%w: CancelForBooking - repository error: %v", ErrInternal, err)
	}
	if cancelled {
		s.logger.Info("CancelForBooking: checklist of booking=%d cancelled", bookingID)
	}
	return cancelled, nil
}

// Get возвращает чек-лист бронирования вместе со строками результатов
func (s *Seeder) Get(ctx context.Context, bookingID int64) (*domain.MaintenanceChecklist, []*domain.MaintenanceChecklistResult, error) {
	checklist, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, checklistRepo.ErrChecklistNotFound) {
			return nil, nil, ErrChecklistNotFound
		}
		return nil, nil, fmt.Errorf("%w: Get - get checklist: %v", ErrInternal, err)
	}

	results, err := s.repo.GetResults(ctx, checklist.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: Get - get results: %v", ErrInternal, err)
	}

	return checklist, results, nil
}
