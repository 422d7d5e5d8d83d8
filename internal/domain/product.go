package domain

import (
	"time"
)

// Condition is the state of the item being sold
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

// Product represents a marketplace listing in the catalog
type Product struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Price          float64         `json:"price"`
	OriginalPrice  *float64        `json:"originalPrice,omitempty"`
	Currency       string          `json:"currency"`
	Condition      Condition       `json:"condition"`
	Category       string          `json:"category"`
	Thumbnail      string          `json:"thumbnail"`
	Images         []string        `json:"images"`
	Description    string          `json:"description"`
	Specifications []Specification `json:"specifications"`
	Seller         Seller          `json:"seller"`
	Stock          int             `json:"stock"`
	SoldQuantity   int             `json:"soldQuantity"`
	Reviews        []Review        `json:"reviews"`
	Questions      []Question      `json:"questions"`
	Shipping       ShippingInfo    `json:"shipping"`
	Warranty       *string         `json:"warranty,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Specification is a single name/value attribute shown on the listing
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Seller is the embedded seller summary
type Seller struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Reputation      float64 `json:"reputation"`
	TotalSales      int     `json:"totalSales"`
	PositiveReviews int     `json:"positiveReviews"`
	ResponseRate    int     `json:"responseRate"`
	ResponseTime    string  `json:"responseTime"`
}

// ShippingInfo is the embedded shipping summary
type ShippingInfo struct {
	FreeShipping      bool     `json:"freeShipping"`
	ShippingCost      *float64 `json:"shippingCost,omitempty"`
	EstimatedDelivery string   `json:"estimatedDelivery"`
	Returns           bool     `json:"returns"`
}

// Review is a rating left by a buyer
type Review struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	Date             time.Time `json:"date"`
	VerifiedPurchase bool      `json:"verifiedPurchase"`
}

// Question is a buyer inquiry, optionally answered by the seller
type Question struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Question string    `json:"question"`
	Answer   *string   `json:"answer,omitempty"`
	Date     time.Time `json:"date"`
}

// Clone returns a deep copy so callers never share slices or pointers with the store.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}

	c := *p
	c.OriginalPrice = cloneFloat(p.OriginalPrice)
	c.Warranty = cloneString(p.Warranty)
	c.Shipping.ShippingCost = cloneFloat(p.Shipping.ShippingCost)

	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Specifications != nil {
		c.Specifications = append([]Specification(nil), p.Specifications...)
	}
	if p.Reviews != nil {
		c.Reviews = append([]Review(nil), p.Reviews...)
	}
	if p.Questions != nil {
		c.Questions = make([]Question, len(p.Questions))
		for i, q := range p.Questions {
			q.Answer = cloneString(q.Answer)
			c.Questions[i] = q
		}
	}

	return &c
}

// FindReview returns the index of the review with the given ID, or -1
func (p *Product) FindReview(id string) int {
	for i := range p.Reviews {
		if p.Reviews[i].ID == id {
			return i
		}
	}
	return -1
}

// FindQuestion returns the index of the question with the given ID, or -1
func (p *Product) FindQuestion(id string) int {
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
