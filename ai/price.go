package ai

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Team-Name-exists/Heritiq/models"
)

type PriceSuggestion struct {
	Analysis       string          `json:"analysis"`
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
	Confidence     float64         `json:"confidence"`
}

type PriceAdvisor interface {
	Suggest(ctx context.Context, product *models.Product) (*PriceSuggestion, error)
}

type DemoAdvisor struct{}

func (DemoAdvisor) Suggest(ctx context.Context, product *models.Product) (*PriceSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &PriceSuggestion{
		Analysis: fmt.Sprintf(
			"Comparable handmade %s items sell between 60 and 100. Materials and finish of %q place it in the upper middle of that range.",
			product.Category, product.Name,
		),
		SuggestedPrice: decimal.RequireFromString("79.99"),
		Confidence:     0.87,
	}, nil
}
