package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clothstore/internal/models"
	"clothstore/internal/repositories"
	"clothstore/internal/storage"
)

// ProductService handles the public catalog and seller product management.
type ProductService struct {
	repo   repositories.ProductRepository
	images storage.ImageStorage
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images storage.ImageStorage, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// ProductView is a product with a short-lived image URL.
type ProductView struct {
	models.Product
	ImageURL string `json:"image_url,omitempty"`
}

// ProductInput carries the seller-editable product fields.
type ProductInput struct {
	Category string
	Name     string
	Brand    string
	Size     string
	Price    decimal.Decimal
	ListedOn *time.Time
}

// ImageUpload tells a seller where to PUT a product image.
type ImageUpload struct {
	URL       string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetAllProducts retrieves every listed product.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, products), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*ProductView, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(ctx, *product)
	return &v, nil
}

// ListSellerProducts returns the seller's products listed on or before today.
func (s *ProductService) ListSellerProducts(ctx context.Context, sellerID string) ([]ProductView, error) {
	y, m, d := time.Now().Date()
	endOfToday := time.Date(y, m, d+1, 0, 0, 0, -1, time.Local)
	products, err := s.repo.GetBySeller(ctx, sellerID, endOfToday)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, products), nil
}

// CreateProduct lists a new product for the seller.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID string, in ProductInput) (*models.Product, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	product := &models.Product{SellerID: sellerID}
	apply(product, in)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("seller_id", sellerID))
	return product, nil
}

// UpdateProduct changes one of the seller's own products.
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, id string, in ProductInput) (*models.Product, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	product, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	apply(product, in)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct delists one of the seller's own products.
func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, id string) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id), zap.String("seller_id", sellerID))
	return nil
}

// ImageUploadURL reserves a new image key for the product and presigns an upload to it.
func (s *ProductService) ImageUploadURL(ctx context.Context, sellerID, id, contentType string) (*ImageUpload, error) {
	product, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("content type %q is not an image: %w", contentType, ErrValidation)
	}

	key := path.Join("products", product.ID, uuid.New().String())
	url, expires, err := s.images.UploadURL(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	previous := product.Image
	product.Image = key
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if previous != "" {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete replaced image", zap.String("key", previous), zap.Error(err))
		}
	}
	return &ImageUpload{URL: url, Key: key, ExpiresAt: expires}, nil
}

// OrderedQuantity reports how many units of the seller's product have been ordered.
func (s *ProductService) OrderedQuantity(ctx context.Context, sellerID, id string) (int64, error) {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return 0, err
	}
	return s.repo.OrderedQuantity(ctx, id)
}

func (s *ProductService) owned(ctx context.Context, sellerID, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, fmt.Errorf("product %s belongs to another seller: %w", id, ErrForbidden)
	}
	return product, nil
}

func (s *ProductService) views(ctx context.Context, products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, s.view(ctx, p))
	}
	return out
}

func (s *ProductService) view(ctx context.Context, p models.Product) ProductView {
	v := ProductView{Product: p}
	if p.Image == "" || s.images == nil {
		return v
	}
	url, _, err := s.images.DownloadURL(ctx, p.Image)
	if err != nil {
		s.logger.Warn("failed to presign product image", zap.String("product_id", p.ID), zap.Error(err))
		return v
	}
	v.ImageURL = url
	return v
}

func apply(p *models.Product, in ProductInput) {
	p.Category = in.Category
	p.Name = in.Name
	p.Brand = in.Brand
	p.Size = in.Size
	p.Price = in.Price.Round(2)
	if in.ListedOn != nil {
		p.ListedOn = *in.ListedOn
	}
}
