package repository

import (
	"time"

	"mercado-libre-api/internal/domain"
)

// SeedProductID is the listing written when the catalog starts empty
const SeedProductID = "MLA123456789"

// SeedProducts returns the catalog written on first start
func SeedProducts() []domain.Product {
	originalPrice := 159999.0
	answer := "Hola! No incluye cargador, solo el cable USB-C a Lightning."
	warranty := "12 meses"

	return []domain.Product{
		{
			ID:            SeedProductID,
			Title:         "iPhone 13 Pro Max 256GB Plata",
			Price:         149999,
			OriginalPrice: &originalPrice,
			Currency:      "ARS",
			Condition:     domain.ConditionNew,
			Category:      "Celulares y Teléfonos",
			Thumbnail:     "https://http2.mlstatic.com/D_NQ_NP_123456-MLA123456789_123456-O.webp",
			Images: []string{
				"https://http2.mlstatic.com/D_NQ_NP_123456-MLA123456789_123456-O.webp",
				"https://http2.mlstatic.com/D_NQ_NP_234567-MLA123456789_234567-O.webp",
			},
			Description: "iPhone 13 Pro Max. Pantalla Super Retina XDR de 6.7 pulgadas. Chip A15 Bionic. Sistema de cámaras Pro con nuevo sensor de 12 MP.",
			Specifications: []domain.Specification{
				{Name: "Marca", Value: "Apple"},
				{Name: "Modelo", Value: "iPhone 13 Pro Max"},
				{Name: "Almacenamiento", Value: "256GB"},
				{Name: "Color", Value: "Plata"},
			},
			Seller: domain.Seller{
				ID:              "seller123",
				Name:            "TecnoStore Oficial",
				Reputation:      4.8,
				TotalSales:      12500,
				PositiveReviews: 98,
				ResponseRate:    95,
				ResponseTime:    "menos de 2 horas",
			},
			Stock:        25,
			SoldQuantity: 342,
			Reviews: []domain.Review{
				{
					ID:               "rev1",
					UserID:           "user456",
					UserName:         "María González",
					Rating:           5,
					Comment:          "Excelente producto, llegó en perfecto estado y antes de lo esperado.",
					Date:             day(2024, time.January, 15),
					VerifiedPurchase: true,
				},
			},
			Questions: []domain.Question{
				{
					ID:       "q1",
					UserID:   "user789",
					UserName: "Carlos López",
					Question: "¿Incluye cargador?",
					Answer:   &answer,
					Date:     day(2024, time.January, 10),
				},
			},
			Shipping: domain.ShippingInfo{
				FreeShipping:      true,
				EstimatedDelivery: "3-5 días hábiles",
				Returns:           true,
			},
			Warranty:  &warranty,
			CreatedAt: day(2024, time.January, 1),
			UpdatedAt: day(2024, time.January, 20),
		},
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
