package order

import (
	"context"
	"fmt"

	"takeaway-be/internal/logger"
	"takeaway-be/internal/menu"
	"takeaway-be/internal/metrics"
	"takeaway-be/internal/notify"
	"takeaway-be/internal/user"
	"takeaway-be/internal/utils"

	"go.uber.org/zap"
)

// MenuCatalog is the slice of the menu the engine needs: current rows
// to snapshot names and prices from at creation time.
type MenuCatalog interface {
	GetByIDs(ctx context.Context, ids []uint) ([]*menu.MenuItem, error)
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	ListForUser(ctx context.Context) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	Cancel(ctx context.Context, orderID uint) (*Order, error)
	UpdateSelf(ctx context.Context, orderID uint, patch SelfPatch) (*Order, error)
	AdminSetStatus(ctx context.Context, orderID uint, newStatus Status) (*Order, error)
}

type service struct {
	repo    Repository
	catalog MenuCatalog
	bus     notify.Publisher
	reg     *metrics.Registry
}

func NewService(repo Repository, catalog MenuCatalog, bus notify.Publisher, reg *metrics.Registry) Service {
	return &service{repo: repo, catalog: catalog, bus: bus, reg: reg}
}

func (s *service) requester(ctx context.Context) (uint, error) {
	uid, ok := utils.GetUserIDFromContext(ctx)
	if !ok || uid == 0 {
		return 0, ErrUnauthorized
	}
	return uid, nil
}

func (s *service) requireManager(ctx context.Context) error {
	role := user.Role(utils.GetUserRoleFromContext(ctx))
	if !user.CanManage(role) {
		return ErrForbidden
	}
	return nil
}

// Create builds the order from trusted menu prices. Submitted totals
// are ignored: subtotal and service charge are always recomputed here.
func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	uid, err := s.requester(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", uid),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		log.Warn("create rejected: no items")
		return nil, fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}

	pm := input.PaymentMethod
	if pm == "" {
		pm = PaymentCash
	}
	if !pm.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	ids := make([]uint, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		ids = append(ids, line.MenuItemID)
	}

	catalogItems, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		log.Error("menu lookup failed", zap.Error(err))
		return nil, err
	}

	byID := make(map[uint]*menu.MenuItem, len(catalogItems))
	for _, item := range catalogItems {
		byID[item.ID] = item
	}

	lines := make([]Line, 0, len(input.Items))
	subtotal := 0.0
	for _, in := range input.Items {
		item, ok := byID[in.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown menu item %d", ErrInvalidInput, in.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%w: %q is not available", ErrInvalidInput, item.Name)
		}

		lineTotal := Round2(item.Price * float64(in.Qty))
		subtotal += lineTotal

		lines = append(lines, Line{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Qty:        in.Qty,
			LineTotal:  lineTotal,
		})
	}

	o := &Order{
		UserID:        uid,
		Items:         lines,
		Subtotal:      Round2(subtotal),
		ServiceCharge: Round2(subtotal * ServiceChargeRate),
		PaymentMethod: pm,
		PickupTime:    input.PickupTime,
		Status:        StatusReceived,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if s.reg != nil {
		s.reg.OrdersCreated.Inc()
	}
	s.bus.Publish(notify.EventOrderCreated, o)

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Float64("subtotal", o.Subtotal),
		zap.Float64("service_charge", o.ServiceCharge),
	)
	return o, nil
}

func (s *service) ListForUser(ctx context.Context) ([]*Order, error) {
	uid, err := s.requester(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

// Cancel is the customer self-service path. Staff correcting an order
// go through AdminSetStatus instead.
func (s *service) Cancel(ctx context.Context, orderID uint) (*Order, error) {
	uid, err := s.requester(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", uid),
	)

	o, err := s.repo.GetOwned(ctx, orderID, uid)
	if err != nil {
		return nil, err
	}

	if !o.Status.SelfEditable() {
		log.Warn("cancel rejected", zap.String("status", string(o.Status)))
		return nil, ErrInvalidTransition
	}

	affected, err := s.repo.UpdateStatusGuard(ctx, orderID, uid, StatusReceived, StatusCanceled)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race against a staff status change.
		return nil, ErrInvalidTransition
	}

	o.Status = StatusCanceled

	if s.reg != nil {
		s.reg.OrdersCanceled.Inc()
	}
	s.bus.Publish(notify.EventOrderCanceled, o)

	log.Info("order canceled")
	return o, nil
}

func (s *service) UpdateSelf(ctx context.Context, orderID uint, patch SelfPatch) (*Order, error) {
	uid, err := s.requester(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrder"),
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", uid),
	)

	o, err := s.repo.GetOwned(ctx, orderID, uid)
	if err != nil {
		return nil, err
	}

	if !o.Status.SelfEditable() {
		log.Warn("edit rejected", zap.String("status", string(o.Status)))
		return nil, ErrInvalidTransition
	}

	if patch.PaymentMethod == nil {
		return o, nil
	}
	if !patch.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, *patch.PaymentMethod)
	}

	affected, err := s.repo.UpdatePaymentGuard(ctx, orderID, uid, *patch.PaymentMethod, StatusReceived)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	o.PaymentMethod = *patch.PaymentMethod

	s.bus.Publish(notify.EventOrderUpdated, o)

	log.Info("order updated", zap.String("payment_method", string(o.PaymentMethod)))
	return o, nil
}

// AdminSetStatus overwrites status unconditionally: staff may move an
// order backward to correct a mistake, and setting the current status
// again is a no-op rather than an error.
func (s *service) AdminSetStatus(ctx context.Context, orderID uint, newStatus Status) (*Order, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdminSetStatus"),
		zap.Uint("order_id", orderID),
		zap.String("status", string(newStatus)),
	)

	if !newStatus.Valid() {
		log.Warn("status override rejected: bad value")
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.SetStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}

	o.Status = newStatus

	s.bus.Publish(notify.EventOrderStatusChanged, o)

	log.Info("status overridden")
	return o, nil
}
