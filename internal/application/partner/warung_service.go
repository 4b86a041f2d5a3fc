package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
)

// WarungService handles warung operations
type WarungService struct {
	warungRepo     partner.WarungRepository
	eventPublisher shared.EventPublisher
}

// NewWarungService creates a new WarungService
func NewWarungService(warungRepo partner.WarungRepository) *WarungService {
	return &WarungService{
		warungRepo: warungRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WarungService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new warung with its credit terms
func (s *WarungService) Create(ctx context.Context, req CreateWarungRequest) (*WarungResponse, error) {
	exists, err := s.warungRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warung code is already taken")
	}

	warung, err := partner.NewWarung(req.Code, req.Name, req.CreditDays)
	if err != nil {
		return nil, err
	}
	if req.OwnerName != "" || req.Phone != "" {
		if err := warung.Update(req.Name, req.OwnerName, req.Phone); err != nil {
			return nil, err
		}
	}
	warung.SetAddress(req.Address, req.City)
	if !req.CreditLimit.IsZero() {
		if err := warung.SetCreditTerms(warung.CreditDays, valueobject.NewMoneyIDR(req.CreditLimit)); err != nil {
			return nil, err
		}
	}

	if err := s.warungRepo.Save(ctx, warung); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, warung)

	response := ToWarungResponse(warung)
	return &response, nil
}

// Get retrieves a warung by ID
func (s *WarungService) Get(ctx context.Context, id uuid.UUID) (*WarungResponse, error) {
	warung, err := s.warungRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarungResponse(warung)
	return &response, nil
}

// GetByCode retrieves a warung by its code
func (s *WarungService) GetByCode(ctx context.Context, code string) (*WarungResponse, error) {
	warung, err := s.warungRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	response := ToWarungResponse(warung)
	return &response, nil
}

// List lists warungs, optionally narrowed to one status
func (s *WarungService) List(ctx context.Context, status string, filter shared.Filter) ([]WarungResponse, error) {
	if status != "" {
		warungStatus := partner.WarungStatus(status)
		if !warungStatus.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid warung status")
		}
		warungs, err := s.warungRepo.FindByStatus(ctx, warungStatus, filter)
		if err != nil {
			return nil, err
		}
		return ToWarungResponses(warungs), nil
	}

	warungs, err := s.warungRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToWarungResponses(warungs), nil
}

// Update updates a warung's basic information
func (s *WarungService) Update(ctx context.Context, id uuid.UUID, req UpdateWarungRequest) (*WarungResponse, error) {
	return s.mutate(ctx, id, func(warung *partner.Warung) error {
		if err := warung.Update(req.Name, req.OwnerName, req.Phone); err != nil {
			return err
		}
		warung.SetAddress(req.Address, req.City)
		return nil
	})
}

// SetCreditTerms changes a warung's credit days and limit
func (s *WarungService) SetCreditTerms(ctx context.Context, id uuid.UUID, req SetCreditTermsRequest) (*WarungResponse, error) {
	return s.mutate(ctx, id, func(warung *partner.Warung) error {
		return warung.SetCreditTerms(req.CreditDays, valueobject.NewMoneyIDR(req.CreditLimit))
	})
}

// Suspend blocks new credit orders for the warung
func (s *WarungService) Suspend(ctx context.Context, id uuid.UUID, reason string) (*WarungResponse, error) {
	return s.mutate(ctx, id, func(warung *partner.Warung) error {
		return warung.Suspend(reason)
	})
}

// Reinstate restores a suspended warung to active
func (s *WarungService) Reinstate(ctx context.Context, id uuid.UUID) (*WarungResponse, error) {
	return s.mutate(ctx, id, func(warung *partner.Warung) error {
		return warung.Reinstate()
	})
}

// Deactivate retires the warung
func (s *WarungService) Deactivate(ctx context.Context, id uuid.UUID) (*WarungResponse, error) {
	return s.mutate(ctx, id, func(warung *partner.Warung) error {
		warung.Deactivate()
		return nil
	})
}

func (s *WarungService) mutate(ctx context.Context, id uuid.UUID, fn func(warung *partner.Warung) error) (*WarungResponse, error) {
	warung, err := s.warungRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(warung); err != nil {
		return nil, err
	}
	if err := s.warungRepo.Save(ctx, warung); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, warung)

	response := ToWarungResponse(warung)
	return &response, nil
}

func (s *WarungService) publishEvents(ctx context.Context, warung *partner.Warung) {
	if s.eventPublisher == nil {
		return
	}
	events := warung.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	warung.ClearDomainEvents()
}
