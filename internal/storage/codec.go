package storage

import (
	"encoding/json"
	"fmt"

	"mercado-libre-api/internal/domain"
)

// Encode renders products as the indented JSON array stored by every backend.
// Dates are written as RFC 3339 (ISO-8601) strings by time.Time.
func Encode(products []domain.Product) ([]byte, error) {
	if products == nil {
		products = []domain.Product{}
	}

	normalized := make([]domain.Product, len(products))
	for i := range products {
		normalized[i] = normalize(products[i])
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode products: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot written by Encode (or by any writer using ISO-8601 dates).
func Decode(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	for i := range products {
		products[i] = normalize(products[i])
	}
	return products, nil
}

// normalize replaces nil collections so they round-trip as [] instead of null
func normalize(p domain.Product) domain.Product {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Specifications == nil {
		p.Specifications = []domain.Specification{}
	}
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}
	if p.Questions == nil {
		p.Questions = []domain.Question{}
	}
	return p
}
