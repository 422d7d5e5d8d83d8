package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"mercado-libre-api/internal/domain"
	"mercado-libre-api/internal/repository"

	"go.uber.org/zap"
)

const (
	// ProductIDPrefix is prepended to the nine random digits of every generated product ID
	ProductIDPrefix = "MLA"

	// RelatedProductsLimit caps the related-products lookup
	RelatedProductsLimit = 4
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	RelatedProducts(ctx context.Context, category, excludeID string) ([]*domain.Product, error)

	AddReview(ctx context.Context, productID string, input ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, productID, reviewID string, patch ReviewPatch) (*domain.Review, error)
	RemoveReview(ctx context.Context, productID, reviewID string) error

	AddQuestion(ctx context.Context, productID string, input QuestionInput) (*domain.Question, error)
	AnswerQuestion(ctx context.Context, productID, questionID, answer string) (*domain.Question, error)
	RemoveQuestion(ctx context.Context, productID, questionID string) (*domain.Product, error)

	IncrementSoldQuantity(ctx context.Context, productID string, quantity int) (*domain.Product, error)
}

// CreateProductInput carries the caller-supplied fields of a new listing
type CreateProductInput struct {
	Title          string
	Price          float64
	OriginalPrice  *float64
	Currency       string
	Condition      domain.Condition
	Category       string
	Thumbnail      string
	Images         []string
	Description    string
	Stock          int
	Specifications []domain.Specification
	Warranty       *string
}

// ProductPatch is a shallow partial update. Nil fields are left untouched;
// non-nil slices replace the stored slice wholesale.
type ProductPatch struct {
	Title          *string
	Price          *float64
	OriginalPrice  *float64
	Currency       *string
	Condition      *domain.Condition
	Category       *string
	Thumbnail      *string
	Images         []string
	Description    *string
	Stock          *int
	SoldQuantity   *int
	Specifications []domain.Specification
	Warranty       *string
}

type ReviewInput struct {
	UserID           string
	UserName         string
	Rating           int
	Comment          string
	VerifiedPurchase bool
}

type ReviewPatch struct {
	Rating  *int
	Comment *string
}

type QuestionInput struct {
	UserID   string
	UserName string
	Question string
}

type productService struct {
	repo   repository.ProductRepository
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger,
		now:    defaultClock,
		newID:  randomProductID,
	}
}

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// randomProductID returns the prefix followed by nine random digits. Uniqueness is not checked.
func randomProductID() string {
	return fmt.Sprintf("%s%09d", ProductIDPrefix, rand.Intn(1_000_000_000))
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create assigns an ID, timestamps and placeholder seller/shipping data, then persists
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := s.now()

	product := &domain.Product{
		ID:             s.newID(),
		Title:          input.Title,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		Currency:       input.Currency,
		Condition:      input.Condition,
		Category:       input.Category,
		Thumbnail:      input.Thumbnail,
		Images:         input.Images,
		Description:    input.Description,
		Specifications: input.Specifications,
		Seller: domain.Seller{
			ID:           "default-seller",
			Name:         "Default Seller",
			ResponseTime: "N/A",
		},
		Stock:        input.Stock,
		SoldQuantity: 0,
		Reviews:      []domain.Review{},
		Questions:    []domain.Question{},
		Shipping: domain.ShippingInfo{
			EstimatedDelivery: "N/A",
		},
		Warranty:  input.Warranty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Specifications == nil {
		product.Specifications = []domain.Specification{}
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("category", product.Category),
	)
	return product, nil
}

// Update shallow-merges the patch onto the stored product and refreshes updatedAt
func (s *productService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		product.OriginalPrice = patch.OriginalPrice
	}
	if patch.Currency != nil {
		product.Currency = *patch.Currency
	}
	if patch.Condition != nil {
		product.Condition = *patch.Condition
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Thumbnail != nil {
		product.Thumbnail = *patch.Thumbnail
	}
	if patch.Images != nil {
		product.Images = patch.Images
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.SoldQuantity != nil {
		product.SoldQuantity = *patch.SoldQuantity
	}
	if patch.Specifications != nil {
		product.Specifications = patch.Specifications
	}
	if patch.Warranty != nil {
		product.Warranty = patch.Warranty
	}
	product.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *productService) RelatedProducts(ctx context.Context, category, excludeID string) ([]*domain.Product, error) {
	return s.repo.FindByCategory(ctx, category, excludeID, RelatedProductsLimit)
}

func (s *productService) AddReview(ctx context.Context, productID string, input ReviewInput) (*domain.Review, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	review := domain.Review{
		ID:               "rev" + strconv.FormatInt(now.UnixMilli(), 10),
		UserID:           input.UserID,
		UserName:         input.UserName,
		Rating:           input.Rating,
		Comment:          input.Comment,
		Date:             now,
		VerifiedPurchase: input.VerifiedPurchase,
	}
	product.Reviews = append(product.Reviews, review)
	product.UpdatedAt = now

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *productService) UpdateReview(ctx context.Context, productID, reviewID string, patch ReviewPatch) (*domain.Review, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := product.FindReview(reviewID)
	if idx < 0 {
		return nil, ErrReviewNotFound
	}

	review := &product.Reviews[idx]
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}
	product.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	updated := *review
	return &updated, nil
}

// RemoveReview deletes the review. Unlike RemoveQuestion it returns nothing.
func (s *productService) RemoveReview(ctx context.Context, productID, reviewID string) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	idx := product.FindReview(reviewID)
	if idx < 0 {
		return ErrReviewNotFound
	}

	product.Reviews = append(product.Reviews[:idx], product.Reviews[idx+1:]...)
	product.UpdatedAt = s.now()

	return s.repo.Save(ctx, product)
}

func (s *productService) AddQuestion(ctx context.Context, productID string, input QuestionInput) (*domain.Question, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	question := domain.Question{
		ID:       "q" + strconv.FormatInt(now.UnixMilli(), 10),
		UserID:   input.UserID,
		UserName: input.UserName,
		Question: input.Question,
		Date:     now,
	}
	product.Questions = append(product.Questions, question)
	product.UpdatedAt = now

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *productService) AnswerQuestion(ctx context.Context, productID, questionID, answer string) (*domain.Question, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := product.FindQuestion(questionID)
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}

	product.Questions[idx].Answer = &answer
	product.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	answered := product.Questions[idx]
	return &answered, nil
}

// RemoveQuestion deletes the question and returns the updated parent product
func (s *productService) RemoveQuestion(ctx context.Context, productID, questionID string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := product.FindQuestion(questionID)
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}

	product.Questions = append(product.Questions[:idx], product.Questions[idx+1:]...)
	product.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// IncrementSoldQuantity moves quantity units from stock to soldQuantity.
// The product is left unchanged when stock cannot cover the sale.
func (s *productService) IncrementSoldQuantity(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > product.Stock {
		s.logger.Debug("Sale rejected",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Int("stock", product.Stock),
		)
		return nil, ErrInsufficientStock
	}

	product.Stock -= quantity
	product.SoldQuantity += quantity
	product.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
