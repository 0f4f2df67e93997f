package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"thrift-market/models"
	"thrift-market/repositories"
)

const productCacheTTL = 60 * time.Second

type ProductService struct {
	productRepo *repositories.ProductRepository
	// cache may be nil; every path degrades to the database.
	cache *redis.Client
}

func NewProductService(productRepo *repositories.ProductRepository, cache *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache}
}

func (s *ProductService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.productRepo.GetAllCategories(ctx)
}

func (s *ProductService) GetProducts(ctx context.Context, filter repositories.ProductFilter, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("products:c%d:s%s:p%d:l%d", filter.CategoryID, filter.Search, page, limit)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	products, total, err := s.productRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	resp := &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}
	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, sellerID int, req models.CreateProductRequest, imageURL string) (*models.Product, error) {
	if imageURL == "" {
		imageURL = "placeholder.jpg"
	}
	condition := req.Condition
	if condition == "" {
		condition = "used"
	}

	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SellerID:    sellerID,
		ImageURL:    imageURL,
		Condition:   condition,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return product, nil
}

// UpdateProduct applies partial updates, seller-scoped. A product owned by
// another seller is not found, never forbidden.
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, productID int, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, ErrProductNotFound
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Condition != nil {
		product.Condition = *req.Condition
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrProductNotFound
	}
	s.invalidateListings(ctx)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, productID int) error {
	deleted, err := s.productRepo.Delete(ctx, productID, sellerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ProductService) GetMyProducts(ctx context.Context, sellerID, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	products, total, err := s.productRepo.ListBySeller(ctx, sellerID, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *ProductService) cacheGet(ctx context.Context, key string) *models.PaginationResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var resp models.PaginationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *ProductService) cacheSet(ctx context.Context, key string, resp *models.PaginationResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, productCacheTTL).Err(); err != nil {
		slog.Debug("product cache set failed", "error", err)
	}
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "products:*", 0).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
}
