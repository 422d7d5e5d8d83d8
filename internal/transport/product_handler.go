package transport

import (
	"errors"
	"fmt"
	"net/http"

	"mercado-libre-api/internal/domain"
	"mercado-libre-api/internal/middleware"
	"mercado-libre-api/internal/repository"
	"mercado-libre-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SpecificationRequest is a single name/value attribute
type SpecificationRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Title          string                 `json:"title" validate:"required"`
	Price          *float64               `json:"price" validate:"required,gte=0"`
	OriginalPrice  *float64               `json:"originalPrice" validate:"omitempty,gte=0"`
	Currency       string                 `json:"currency" validate:"required"`
	Condition      string                 `json:"condition" validate:"required,oneof=new used refurbished"`
	Category       string                 `json:"category" validate:"required"`
	Thumbnail      string                 `json:"thumbnail" validate:"required,url"`
	Images         []string               `json:"images" validate:"required,dive,url"`
	Description    string                 `json:"description"`
	Stock          *int                   `json:"stock" validate:"required,gte=0"`
	Specifications []SpecificationRequest `json:"specifications" validate:"omitempty,dive"`
	Warranty       *string                `json:"warranty"`
}

// UpdateProductRequest represents a partial product update. Absent fields are left untouched.
type UpdateProductRequest struct {
	Title          *string                `json:"title" validate:"omitempty,min=1"`
	Price          *float64               `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice  *float64               `json:"originalPrice" validate:"omitempty,gte=0"`
	Currency       *string                `json:"currency"`
	Condition      *string                `json:"condition" validate:"omitempty,oneof=new used refurbished"`
	Category       *string                `json:"category"`
	Thumbnail      *string                `json:"thumbnail" validate:"omitempty,url"`
	Images         []string               `json:"images" validate:"omitempty,dive,url"`
	Description    *string                `json:"description"`
	Stock          *int                   `json:"stock" validate:"omitempty,gte=0"`
	SoldQuantity   *int                   `json:"soldQuantity" validate:"omitempty,gte=0"`
	Specifications []SpecificationRequest `json:"specifications" validate:"omitempty,dive"`
	Warranty       *string                `json:"warranty"`
}

// CreateReviewRequest represents a new review
type CreateReviewRequest struct {
	UserID           string `json:"userId" validate:"required"`
	UserName         string `json:"userName" validate:"required"`
	Rating           int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment          string `json:"comment"`
	VerifiedPurchase bool   `json:"verifiedPurchase"`
}

// UpdateReviewRequest represents a partial review update
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment"`
}

// CreateQuestionRequest represents a buyer question
type CreateQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

// AnswerQuestionRequest represents the seller's answer
type AnswerQuestionRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// SellRequest represents a sale. A missing or zero quantity counts as one unit.
type SellRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes under prefix
func (h *ProductHandler) RegisterRoutes(r chi.Router, prefix string) {
	r.Route(prefix+"/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/related", h.Related)
			r.Patch("/sold", h.Sell)

			r.Post("/reviews", h.AddReview)
			r.Put("/reviews/{reviewId}", h.UpdateReview)
			r.Delete("/reviews/{reviewId}", h.RemoveReview)

			r.Post("/questions", h.AddQuestion)
			r.Post("/questions/{questionId}/answer", h.AnswerQuestion)
			r.Delete("/questions/{questionId}", h.RemoveQuestion)
		})
	})
}

// decode reports a 400 and returns false when the body is malformed or invalid
func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	var err error
	if optional {
		err = middleware.DecodeOptionalAndValidate(r, v)
	} else {
		err = middleware.DecodeAndValidate(r, v)
	}
	if err == nil {
		return true
	}

	h.logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return false
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// handleError maps service errors to responses. Anything unrecognized becomes a 500
// with the fixed fallback message; the cause is only logged.
func (h *ProductHandler) handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound,
			fmt.Sprintf("Product with ID %s not found", chi.URLParam(r, "id")))
	case errors.Is(err, service.ErrReviewNotFound):
		middleware.RespondWithError(w, http.StatusNotFound,
			fmt.Sprintf("Review with ID %s not found", chi.URLParam(r, "reviewId")))
	case errors.Is(err, service.ErrQuestionNotFound):
		middleware.RespondWithError(w, http.StatusNotFound,
			fmt.Sprintf("Question with ID %s not found", chi.URLParam(r, "questionId")))
	case errors.Is(err, service.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.handleError(w, r, err, "Failed to fetch products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "Failed to fetch product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Related handles GET /products/{id}/related
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "Failed to fetch related products")
		return
	}

	related, err := h.productService.RelatedProducts(r.Context(), product.Category, id)
	if err != nil {
		h.handleError(w, r, err, "Failed to fetch related products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, related)
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Title:          req.Title,
		Price:          *req.Price,
		OriginalPrice:  req.OriginalPrice,
		Currency:       req.Currency,
		Condition:      domain.Condition(req.Condition),
		Category:       req.Category,
		Thumbnail:      req.Thumbnail,
		Images:         req.Images,
		Description:    req.Description,
		Stock:          *req.Stock,
		Specifications: toSpecifications(req.Specifications),
		Warranty:       req.Warranty,
	})
	if err != nil {
		h.handleError(w, r, err, "Failed to create product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	patch := service.ProductPatch{
		Title:          req.Title,
		Price:          req.Price,
		OriginalPrice:  req.OriginalPrice,
		Currency:       req.Currency,
		Category:       req.Category,
		Thumbnail:      req.Thumbnail,
		Images:         req.Images,
		Description:    req.Description,
		Stock:          req.Stock,
		SoldQuantity:   req.SoldQuantity,
		Specifications: toSpecifications(req.Specifications),
		Warranty:       req.Warranty,
	}
	if req.Condition != nil {
		condition := domain.Condition(*req.Condition)
		patch.Condition = &condition
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.handleError(w, r, err, "Failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddReview handles POST /products/{id}/reviews
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	review, err := h.productService.AddReview(r.Context(), chi.URLParam(r, "id"), service.ReviewInput{
		UserID:           req.UserID,
		UserName:         req.UserName,
		Rating:           req.Rating,
		Comment:          req.Comment,
		VerifiedPurchase: req.VerifiedPurchase,
	})
	if err != nil {
		h.handleError(w, r, err, "Failed to add review")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /products/{id}/reviews/{reviewId}
func (h *ProductHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	review, err := h.productService.UpdateReview(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "reviewId"),
		service.ReviewPatch{Rating: req.Rating, Comment: req.Comment},
	)
	if err != nil {
		h.handleError(w, r, err, "Failed to update review")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// RemoveReview handles DELETE /products/{id}/reviews/{reviewId}
func (h *ProductHandler) RemoveReview(w http.ResponseWriter, r *http.Request) {
	err := h.productService.RemoveReview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reviewId"))
	if err != nil {
		h.handleError(w, r, err, "Failed to delete review")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddQuestion handles POST /products/{id}/questions
func (h *ProductHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	question, err := h.productService.AddQuestion(r.Context(), chi.URLParam(r, "id"), service.QuestionInput{
		UserID:   req.UserID,
		UserName: req.UserName,
		Question: req.Question,
	})
	if err != nil {
		h.handleError(w, r, err, "Failed to add question")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, question)
}

// AnswerQuestion handles POST /products/{id}/questions/{questionId}/answer
func (h *ProductHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req AnswerQuestionRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	question, err := h.productService.AnswerQuestion(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "questionId"),
		req.Answer,
	)
	if err != nil {
		h.handleError(w, r, err, "Failed to answer question")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, question)
}

// RemoveQuestion handles DELETE /products/{id}/questions/{questionId} and returns the parent product
func (h *ProductHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.RemoveQuestion(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "questionId"))
	if err != nil {
		h.handleError(w, r, err, "Failed to delete question")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Sell handles PATCH /products/{id}/sold
func (h *ProductHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if !h.decode(w, r, &req, true) {
		return
	}

	product, err := h.productService.IncrementSoldQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		h.handleError(w, r, err, "Failed to update sold quantity")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func toSpecifications(specs []SpecificationRequest) []domain.Specification {
	if specs == nil {
		return nil
	}
	out := make([]domain.Specification, len(specs))
	for i, s := range specs {
		out[i] = domain.Specification{Name: s.Name, Value: s.Value}
	}
	return out
}
