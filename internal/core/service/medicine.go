package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type MedicineService struct {
	medicines port.MedicineRepository
	logger    *zap.Logger
}

func NewMedicineService(medicines port.MedicineRepository, logger *zap.Logger) (*MedicineService, error) {
	return &MedicineService{medicines: medicines, logger: logger}, nil
}

func (s *MedicineService) CreateMedicine(ctx context.Context, medicine *domain.Medicine) (*domain.Medicine, error) {
	if strings.TrimSpace(medicine.Name) == "" ||
		strings.TrimSpace(medicine.Slug) == "" ||
		medicine.Price.IsNeg() || medicine.Stock < 0 ||
		medicine.CategoryID == uuid.Nil || medicine.SellerID == uuid.Nil {
		return nil, domain.ErrBadRequest
	}

	medicine.ID = uuid.New()
	medicine.IsActive = true

	created, err := s.medicines.CreateMedicine(ctx, medicine)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("create medicine", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	medicine, err := s.medicines.ReadMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("read medicine", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return medicine, nil
}

func (s *MedicineService) ListMedicines(ctx context.Context, filter domain.MedicineFilter,
	page domain.Page) ([]*domain.Medicine, error) {
	list, err := s.medicines.ListMedicines(ctx, filter, page.Normalize(domain.MedicineSortFields))
	if err != nil {
		s.logger.Error("list medicines", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *MedicineService) ListSellerMedicines(ctx context.Context, sellerID uuid.UUID,
	page domain.Page) ([]*domain.Medicine, error) {
	list, err := s.medicines.ListMedicinesBySeller(ctx, sellerID, page.Normalize(domain.MedicineSortFields))
	if err != nil {
		s.logger.Error("list seller medicines", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID,
	update domain.MedicineUpdate, actor domain.Actor) (*domain.Medicine, error) {
	if update.Empty() {
		return nil, domain.ErrNoUpdatedData
	}
	if update.Price != nil && update.Price.IsNeg() {
		return nil, domain.ErrBadRequest
	}

	if _, err := s.readForWrite(ctx, id, actor); err != nil {
		return nil, err
	}

	updated, err := s.medicines.UpdateMedicine(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) || errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("update medicine", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	if _, err := s.readForWrite(ctx, id, actor); err != nil {
		return err
	}

	if err := s.medicines.DeleteMedicine(ctx, id); err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return err
		}
		s.logger.Error("delete medicine", zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}

func (s *MedicineService) readForWrite(ctx context.Context, id uuid.UUID,
	actor domain.Actor) (*domain.Medicine, error) {
	medicine, err := s.medicines.ReadMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("read medicine", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if !medicine.EditableBy(actor) {
		return nil, domain.ErrForbidden
	}
	return medicine, nil
}
