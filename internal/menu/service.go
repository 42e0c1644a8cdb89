package menu

import (
	"context"
	"fmt"

	"takeaway-be/internal/logger"
	"takeaway-be/internal/metrics"
	"takeaway-be/internal/notify"
	"takeaway-be/internal/user"
	"takeaway-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	ListAvailable(ctx context.Context) ([]*MenuItem, error)
	ListAll(ctx context.Context) ([]*MenuItem, error)
	Create(ctx context.Context, input CreateInput) (*MenuItem, error)
	Update(ctx context.Context, id uint, patch UpdateInput) (*MenuItem, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
	bus  notify.Publisher
	reg  *metrics.Registry
}

func NewService(repo Repository, bus notify.Publisher, reg *metrics.Registry) Service {
	return &service{repo: repo, bus: bus, reg: reg}
}

func (s *service) requireManager(ctx context.Context) error {
	role := user.Role(utils.GetUserRoleFromContext(ctx))
	if !user.CanManage(role) {
		return ErrForbidden
	}
	return nil
}

func (s *service) ListAvailable(ctx context.Context) ([]*MenuItem, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*MenuItem{}
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context) ([]*MenuItem, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*MenuItem{}
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*MenuItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateMenuItem"),
		zap.String("name", input.Name),
	)

	if err := s.requireManager(ctx); err != nil {
		log.Warn("menu create rejected: not a manager")
		return nil, err
	}

	if err := validateCreate(input); err != nil {
		log.Warn("menu create validation failed", zap.Error(err))
		return nil, err
	}

	item := &MenuItem{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		IsAvailable: true,
		Image:       input.Image,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if s.reg != nil {
		s.reg.MenuMutations.Inc()
	}
	s.bus.Publish(notify.EventMenuChanged, ChangePayload{Type: "add", Item: item})

	log.Info("menu item created", zap.Uint("item_id", item.ID))
	return item, nil
}

func (s *service) Update(ctx context.Context, id uint, patch UpdateInput) (*MenuItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateMenuItem"),
		zap.Uint("item_id", id),
	)

	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			return nil, fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
		}
		item.Category = *patch.Category
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
		}
		item.Price = *patch.Price
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if patch.Image != nil {
		item.Image = patch.Image
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	if s.reg != nil {
		s.reg.MenuMutations.Inc()
	}
	s.bus.Publish(notify.EventMenuChanged, ChangePayload{Type: "edit", Item: item})

	log.Info("menu item updated")
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteMenuItem"),
		zap.Uint("item_id", id),
	)

	if err := s.requireManager(ctx); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.reg != nil {
		s.reg.MenuMutations.Inc()
	}
	s.bus.Publish(notify.EventMenuChanged, ChangePayload{Type: "delete", ID: id})

	log.Info("menu item deleted")
	return nil
}

func validateCreate(input CreateInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return nil
}
