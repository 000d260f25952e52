package service

import (
	"context"
	"fmt"
	"time"

	"commerce-service/internal/broker"
	"commerce-service/internal/domain"
	"commerce-service/internal/inventory"
	"commerce-service/internal/models"
	"commerce-service/internal/pricing"
	"commerce-service/internal/redisclient"
	"commerce-service/internal/store"
	"commerce-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// variantTxSource adapts the concrete store to the adjuster's transaction
// source interface.
type variantTxSource struct {
	st *store.Store
}

func (s variantTxSource) BeginVariantTx(ctx context.Context, variantIDs []int64) (inventory.VariantTx, error) {
	return s.st.BeginVariantTx(ctx, variantIDs)
}

// OrderService handles order business logic: settlement, stock deduction and
// cancellation.
type OrderService struct {
	store          *store.Store
	redis          stockMirror
	eventPublisher *broker.EventPublisher
	adjuster       *inventory.Adjuster
	userClient     *UserClient
	couponClient   *CouponClient
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	st *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	userClient *UserClient,
	couponClient *CouponClient,
) *OrderService {
	svc := &OrderService{
		store:          st,
		eventPublisher: eventPublisher,
		adjuster:       inventory.NewAdjuster(variantTxSource{st: st}),
		userClient:     userClient,
		couponClient:   couponClient,
		logger:         util.GetLogger(),
	}
	if redis != nil {
		svc.redis = redis
	}
	return svc
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	UserID         int64              `json:"user_id" binding:"required"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CouponID       *int64             `json:"coupon_id,omitempty"`
	UsedPoint      int64              `json:"used_point" binding:"min=0"`
	ExpectedTotal  int64              `json:"expected_total_amount" binding:"min=0"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
}

// OrderItemRequest represents an item in an order
type OrderItemRequest struct {
	ProductVariantID int64 `json:"product_variant_id" binding:"required"`
	Quantity         int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID            int64  `json:"order_id"`
	Status             string `json:"status"`
	FinalPaymentAmount int64  `json:"final_payment_amount"`
}

// CreateOrder settles and persists a new order, then deducts stock. The
// client's expected total guards against stale pricing; any divergence
// rejects the order before anything is written.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderSettlementLatency.Observe(time.Since(start).Seconds())
	}()

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	existingOrder, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existingOrder != nil {
		s.logger.Info("Duplicate order request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Int64("order_id", existingOrder.ID))
		return &CreateOrderResponse{
			OrderID:            existingOrder.ID,
			Status:             existingOrder.Status,
			FinalPaymentAmount: existingOrder.FinalPaymentAmount,
		}, nil
	}

	variants, err := s.resolveVariants(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("variant_not_found").Inc()
		return nil, err
	}

	specs := make([]pricing.ItemSpec, len(req.Items))
	for i, item := range req.Items {
		v := variants[item.ProductVariantID]
		specs[i] = pricing.ItemSpec{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        pricing.NewUnitPrice(v.OriginalPrice, v.DiscountRate),
		}
	}
	calc := pricing.CalculateItems(specs)

	var coupon *pricing.CouponApplication
	if req.CouponID != nil {
		coupon, err = s.couponClient.ResolveCoupon(ctx, req.UserID, *req.CouponID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("coupon_lookup_failed").Inc()
			return nil, fmt.Errorf("failed to resolve coupon: %w", err)
		}
	}

	var pointBalance int64
	if req.UsedPoint > 0 {
		pointBalance, err = s.userClient.GetPointBalance(ctx, req.UserID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("point_lookup_failed").Inc()
			return nil, fmt.Errorf("failed to fetch point balance: %w", err)
		}
	}

	settlement, err := pricing.Settle(calc, req.UsedPoint, pointBalance, req.ExpectedTotal, coupon)
	if err != nil {
		s.recordSettlementFailure(err)
		return nil, err
	}

	quantities := make(map[int64]int, len(req.Items))
	for _, item := range req.Items {
		quantities[item.ProductVariantID] += item.Quantity
	}

	// Advisory fast path: when the mirror already knows the stock cannot
	// cover the request, reject before opening a database transaction.
	if s.redis != nil {
		if err := precheckStock(ctx, s.redis, quantities, s.logger); err != nil {
			util.OrdersFailedTotal.WithLabelValues("stock").Inc()
			return nil, err
		}
	}

	adjustments, err := s.adjuster.Reduce(ctx, quantities)
	if err != nil {
		s.restoreMirror(ctx, quantities)
		util.OrdersFailedTotal.WithLabelValues("stock").Inc()
		return nil, err
	}

	order := &models.Order{
		UserID:               req.UserID,
		Status:               models.OrderStatusCreated,
		TotalOriginPrice:     settlement.TotalOriginPrice,
		TotalProductDiscount: settlement.TotalProductDiscount,
		CouponDiscount:       settlement.CouponDiscount,
		UsedPoint:            settlement.UsedPoint,
		FinalPaymentAmount:   settlement.FinalPaymentAmount,
		CouponID:             req.CouponID,
		IdempotencyKey:       req.IdempotencyKey,
	}
	items := buildOrderItems(specs, variants)

	if _, err := s.store.CreateOrder(ctx, order, items); err != nil {
		// The stock deduction already committed; hand it back.
		s.restoreAdjustments(ctx, adjustments)
		s.restoreMirror(ctx, quantities)
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("final_payment_amount", order.FinalPaymentAmount))

	s.settleExternally(ctx, order, req)
	s.mirrorReductions(ctx, adjustments)
	s.publishCreationEvents(ctx, order, items, adjustments)
	s.confirmOrder(ctx, order)

	return &CreateOrderResponse{
		OrderID:            order.ID,
		Status:             order.Status,
		FinalPaymentAmount: order.FinalPaymentAmount,
	}, nil
}

// resolveVariants loads all referenced variants and fails on the first
// missing one.
func (s *OrderService) resolveVariants(ctx context.Context, items []OrderItemRequest) (map[int64]models.ProductVariant, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductVariantID
	}

	variants, err := s.store.GetVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.ProductVariant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewIDError(domain.KindNotFoundVariant, "product variant not found", id)
		}
	}

	return byID, nil
}

func buildOrderItems(specs []pricing.ItemSpec, variants map[int64]models.ProductVariant) []models.OrderItem {
	items := make([]models.OrderItem, len(specs))
	for i, spec := range specs {
		items[i] = models.OrderItem{
			ProductVariantID: spec.ProductVariantID,
			Quantity:         spec.Quantity,
			OriginalPrice:    spec.UnitPrice.OriginalPrice,
			DiscountAmount:   spec.UnitPrice.DiscountAmount,
			DiscountedPrice:  spec.UnitPrice.DiscountedPrice,
			LineTotal:        spec.LineTotal(),
			SKU:              variants[spec.ProductVariantID].SKU,
		}
	}
	return items
}

func (s *OrderService) recordSettlementFailure(err error) {
	switch domain.KindOf(err) {
	case domain.KindPriceDriftDetected:
		util.SettlementDriftTotal.Inc()
		util.OrdersFailedTotal.WithLabelValues("price_drift").Inc()
	case domain.KindInsufficientPointBalance:
		util.OrdersFailedTotal.WithLabelValues("insufficient_points").Inc()
	default:
		util.OrdersFailedTotal.WithLabelValues("settlement").Inc()
	}
}

// settleExternally confirms point and coupon usage after the order row
// exists. Failures are logged, not fatal; reconciliation picks them up.
func (s *OrderService) settleExternally(ctx context.Context, order *models.Order, req *CreateOrderRequest) {
	if order.UsedPoint > 0 {
		if err := s.userClient.DeductPoints(ctx, order.UserID, order.UsedPoint, order.ID); err != nil {
			s.logger.Error("Failed to deduct points",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
		}
	}

	if req.CouponID != nil {
		if err := s.couponClient.RedeemCoupon(ctx, order.UserID, *req.CouponID, order.ID); err != nil {
			s.logger.Error("Failed to redeem coupon",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
		}
	}
}

func (s *OrderService) mirrorReductions(ctx context.Context, adjustments []inventory.Adjustment) {
	if s.redis == nil {
		return
	}
	for _, adj := range adjustments {
		if err := s.redis.MirrorStock(ctx, adj.ProductVariantID, adj.RemainingStock); err != nil {
			s.logger.Warn("Failed to mirror stock reduction",
				zap.Int64("variant_id", adj.ProductVariantID),
				zap.Error(err))
		}
	}
}

func (s *OrderService) restoreMirror(ctx context.Context, quantities map[int64]int) {
	if s.redis == nil {
		return
	}
	restoreMirrorReductions(ctx, s.redis, quantities, s.logger)
}

func (s *OrderService) restoreAdjustments(ctx context.Context, adjustments []inventory.Adjustment) {
	quantities := make(map[int64]int, len(adjustments))
	for _, adj := range adjustments {
		quantities[adj.ProductVariantID] = -adj.Quantity
	}
	if _, err := s.adjuster.Restore(ctx, quantities); err != nil {
		s.logger.Error("Failed to restore stock after order failure", zap.Error(err))
	}
}

func (s *OrderService) publishCreationEvents(ctx context.Context, order *models.Order, items []models.OrderItem, adjustments []inventory.Adjustment) {
	itemData := make([]models.OrderItemData, len(items))
	for i, item := range items {
		itemData[i] = models.OrderItemData{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			DiscountedPrice:  item.DiscountedPrice,
		}
	}

	created := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:            order.ID,
		UserID:             order.UserID,
		FinalPaymentAmount: order.FinalPaymentAmount,
		Items:              itemData,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, created); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	deducted := make([]models.DeductedItemData, len(adjustments))
	for i, adj := range adjustments {
		deducted[i] = models.DeductedItemData{
			ProductVariantID: adj.ProductVariantID,
			Quantity:         -adj.Quantity,
			OriginalPrice:    adj.OriginalPrice,
			DiscountedPrice:  adj.DiscountedPrice,
			RemainingStock:   adj.RemainingStock,
		}
	}

	stockEvent := &models.StockDeductedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockDeducted,
			Timestamp: time.Now(),
		},
		OrderID:  order.ID,
		Deducted: deducted,
	}
	if err := s.eventPublisher.PublishStockDeducted(ctx, stockEvent); err != nil {
		s.logger.Error("Failed to publish StockDeducted event", zap.Error(err))
	}
}

// confirmOrder advances the order once stock deduction committed. The order
// row is already durable, so a failure here leaves a CREATED order for
// reconciliation rather than failing the request.
func (s *OrderService) confirmOrder(ctx context.Context, order *models.Order) {
	if err := s.store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusConfirmed); err != nil {
		s.logger.Error("Failed to confirm order",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}
	order.Status = models.OrderStatusConfirmed

	event := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now(),
		},
		OrderID: order.ID,
		UserID:  order.UserID,
	}
	if err := s.eventPublisher.PublishOrderConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
	}
}

// CancelOrder cancels an order and requests stock restoration. Cancelling an
// already cancelled order is a no-op.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.CancelOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return domain.NewIDError(domain.KindNotFoundOrder, "order not found", orderID)
	}
	if order.Status == models.OrderStatusCancelled {
		return nil
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.Int64("order_id", orderID),
		zap.String("reason", reason))

	if order.UsedPoint > 0 {
		if err := s.userClient.RefundPoints(ctx, order.UserID, order.UsedPoint, orderID); err != nil {
			s.logger.Error("Failed to refund points", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	if order.CouponID != nil {
		if err := s.couponClient.ReleaseCoupon(ctx, order.UserID, *order.CouponID, orderID); err != nil {
			s.logger.Error("Failed to release coupon", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	restoreItems := make([]models.OrderItemData, len(items))
	for i, item := range items {
		restoreItems[i] = models.OrderItemData{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			DiscountedPrice:  item.DiscountedPrice,
		}
	}

	restore := &models.StockRestoreEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockRestore,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Items:   restoreItems,
	}
	if err := s.eventPublisher.PublishStockRestore(ctx, restore); err != nil {
		s.logger.Error("Failed to publish StockRestore event", zap.Error(err))
	}

	cancelled := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Reason:  reason,
	}
	if err := s.eventPublisher.PublishOrderCancelled(ctx, cancelled); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}

	return nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.NewIDError(domain.KindNotFoundOrder, "order not found", orderID)
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}
