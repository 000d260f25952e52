package service

import (
	"context"
	"fmt"

	"commerce-service/internal/catalog"
	"commerce-service/internal/domain"
	"commerce-service/internal/models"
	"commerce-service/internal/redisclient"
	"commerce-service/internal/store"
	"commerce-service/internal/util"

	"go.uber.org/zap"
)

// ProductService handles catalog write operations: product registration and
// variant addition. Structural checks run first and touch no storage; only
// structurally sound commands reach the resolver.
type ProductService struct {
	store    *store.Store
	resolver *catalog.Resolver
	redis    stockMirror
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(st *store.Store, redis *redisclient.Client) *ProductService {
	svc := &ProductService{
		store:    st,
		resolver: catalog.NewResolver(st),
		logger:   util.GetLogger(),
	}
	if redis != nil {
		svc.redis = redis
	}
	return svc
}

// CreateProduct registers a new product aggregate in DRAFT status.
func (ps *ProductService) CreateProduct(ctx context.Context, cmd catalog.CreateProductCommand) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	validated, err := catalog.ValidateCreateProduct(cmd)
	if err != nil {
		util.CatalogRejectionsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}

	data, err := ps.resolver.ResolveProduct(ctx, validated)
	if err != nil {
		util.CatalogRejectionsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}

	product := catalog.BuildProduct(validated, data)
	if err := ps.store.SaveProduct(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	ps.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int("variants", len(product.Variants)))

	ps.mirrorVariantStock(ctx, product.Variants)

	return &product, nil
}

// AddVariant adds one new variant to an existing product.
func (ps *ProductService) AddVariant(ctx context.Context, productID int64, spec catalog.ProductVariantSpec) (*models.ProductVariant, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.AddVariant")
	defer span.End()

	product, err := ps.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.NewIDError(domain.KindNotFoundProduct, "product not found", productID)
	}

	if _, err := ps.resolver.ResolveVariantAddition(ctx, spec, product); err != nil {
		util.CatalogRejectionsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}

	variant := catalog.BuildVariant(spec)
	if err := ps.store.AddVariant(ctx, productID, &variant); err != nil {
		return nil, fmt.Errorf("failed to save variant: %w", err)
	}

	util.VariantsAddedTotal.Inc()
	ps.logger.Info("Variant added",
		zap.Int64("product_id", productID),
		zap.String("sku", variant.SKU))

	ps.mirrorVariantStock(ctx, []models.ProductVariant{variant})

	return &variant, nil
}

// GetProduct loads a full product aggregate.
func (ps *ProductService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := ps.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewIDError(domain.KindNotFoundProduct, "product not found", productID)
	}
	return product, nil
}

// GetVariantStock reports the current stock level for a variant, serving
// from the mirror when it holds the key and backfilling it on a miss.
func (ps *ProductService) GetVariantStock(ctx context.Context, variantID int64) (int, error) {
	if ps.redis != nil {
		quantity, found, err := ps.redis.GetStock(ctx, variantID)
		if err != nil {
			ps.logger.Warn("Stock mirror lookup failed",
				zap.Int64("variant_id", variantID),
				zap.Error(err))
		} else if found {
			return quantity, nil
		}
	}

	variants, err := ps.store.GetVariantsByIDs(ctx, []int64{variantID})
	if err != nil {
		return 0, err
	}
	if len(variants) == 0 {
		return 0, domain.NewIDError(domain.KindNotFoundVariant, "product variant not found", variantID)
	}

	ps.mirrorVariantStock(ctx, variants)
	return variants[0].StockQuantity, nil
}

func (ps *ProductService) mirrorVariantStock(ctx context.Context, variants []models.ProductVariant) {
	if ps.redis == nil {
		return
	}
	for _, v := range variants {
		if err := ps.redis.MirrorStock(ctx, v.ID, v.StockQuantity); err != nil {
			ps.logger.Warn("Failed to mirror variant stock",
				zap.Int64("variant_id", v.ID),
				zap.Error(err))
		}
	}
}
