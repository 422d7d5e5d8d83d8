package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductClone_DoesNotShareState(t *testing.T) {
	price := 100.0
	warranty := "12 meses"
	answer := "yes"

	original := &Product{
		ID:             "MLA000000001",
		OriginalPrice:  &price,
		Warranty:       &warranty,
		Images:         []string{"https://example.com/a.jpg"},
		Specifications: []Specification{{Name: "Marca", Value: "Apple"}},
		Reviews:        []Review{{ID: "rev1", Rating: 5}},
		Questions:      []Question{{ID: "q1", Answer: &answer}},
		CreatedAt:      time.Now(),
	}

	clone := original.Clone()
	require.NotNil(t, clone)

	*clone.OriginalPrice = 1
	*clone.Warranty = "none"
	clone.Images[0] = "changed"
	clone.Specifications[0].Value = "changed"
	clone.Reviews[0].Rating = 1
	*clone.Questions[0].Answer = "no"

	assert.Equal(t, 100.0, *original.OriginalPrice)
	assert.Equal(t, "12 meses", *original.Warranty)
	assert.Equal(t, "https://example.com/a.jpg", original.Images[0])
	assert.Equal(t, "Apple", original.Specifications[0].Value)
	assert.Equal(t, 5, original.Reviews[0].Rating)
	assert.Equal(t, "yes", *original.Questions[0].Answer)
}

func TestProductClone_Nil(t *testing.T) {
	var p *Product
	assert.Nil(t, p.Clone())
}

func TestProductFindReviewAndQuestion(t *testing.T) {
	p := &Product{
		Reviews:   []Review{{ID: "rev1"}, {ID: "rev2"}},
		Questions: []Question{{ID: "q1"}},
	}

	assert.Equal(t, 1, p.FindReview("rev2"))
	assert.Equal(t, -1, p.FindReview("missing"))
	assert.Equal(t, 0, p.FindQuestion("q1"))
	assert.Equal(t, -1, p.FindQuestion("q2"))
}
