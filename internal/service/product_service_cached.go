package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mercado-libre-api/internal/domain"
	"mercado-libre-api/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedProductService keeps single-product reads in Redis. Every mutation
// drops the cached entry of the product it touched.
type cachedProductService struct {
	next        ProductService
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewCachedProductService wraps next with a read-through Redis cache keyed by product ID
func NewCachedProductService(next ProductService, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) ProductService {
	return &cachedProductService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    ttl,
		logger:      logger,
	}
}

func productKey(id string) string {
	return "product:" + id
}

func (s *cachedProductService) invalidate(ctx context.Context, id string) {
	if err := s.redisClient.Del(ctx, productKey(id)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate cached product", zap.String("product_id", id), zap.Error(err))
	}
}

func (s *cachedProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := productKey(id)

	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(val, &product); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &product, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Product cache read failed", zap.String("product_id", id), zap.Error(err))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	product, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("Product cache write failed", zap.String("product_id", id), zap.Error(err))
		}
	}

	return product, nil
}

func (s *cachedProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.next.List(ctx)
}

func (s *cachedProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	return s.next.Create(ctx, input)
}

func (s *cachedProductService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	defer s.invalidate(ctx, id)
	return s.next.Update(ctx, id, patch)
}

func (s *cachedProductService) Delete(ctx context.Context, id string) error {
	defer s.invalidate(ctx, id)
	return s.next.Delete(ctx, id)
}

func (s *cachedProductService) RelatedProducts(ctx context.Context, category, excludeID string) ([]*domain.Product, error) {
	return s.next.RelatedProducts(ctx, category, excludeID)
}

func (s *cachedProductService) AddReview(ctx context.Context, productID string, input ReviewInput) (*domain.Review, error) {
	defer s.invalidate(ctx, productID)
	return s.next.AddReview(ctx, productID, input)
}

func (s *cachedProductService) UpdateReview(ctx context.Context, productID, reviewID string, patch ReviewPatch) (*domain.Review, error) {
	defer s.invalidate(ctx, productID)
	return s.next.UpdateReview(ctx, productID, reviewID, patch)
}

func (s *cachedProductService) RemoveReview(ctx context.Context, productID, reviewID string) error {
	defer s.invalidate(ctx, productID)
	return s.next.RemoveReview(ctx, productID, reviewID)
}

func (s *cachedProductService) AddQuestion(ctx context.Context, productID string, input QuestionInput) (*domain.Question, error) {
	defer s.invalidate(ctx, productID)
	return s.next.AddQuestion(ctx, productID, input)
}

func (s *cachedProductService) AnswerQuestion(ctx context.Context, productID, questionID, answer string) (*domain.Question, error) {
	defer s.invalidate(ctx, productID)
	return s.next.AnswerQuestion(ctx, productID, questionID, answer)
}

func (s *cachedProductService) RemoveQuestion(ctx context.Context, productID, questionID string) (*domain.Product, error) {
	defer s.invalidate(ctx, productID)
	return s.next.RemoveQuestion(ctx, productID, questionID)
}

func (s *cachedProductService) IncrementSoldQuantity(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	defer s.invalidate(ctx, productID)
	return s.next.IncrementSoldQuantity(ctx, productID, quantity)
}
