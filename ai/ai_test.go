package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Name-exists/Heritiq/models"
)

func TestDemoWriter(t *testing.T) {
	product := &models.Product{Name: "Walnut Bowl", Category: "Woodwork", Materials: "walnut, , beeswax ,oil"}

	plan, err := DemoWriter{}.Generate(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, "How to Create Walnut Bowl", plan.Title)
	require.Len(t, plan.Steps, 4)
	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.StepNumber)
		assert.NotEmpty(t, step.Tips)
	}
	assert.Contains(t, plan.Steps[1].Description, "woodwork")
	assert.Equal(t, []string{"walnut", "beeswax", "oil"}, plan.MaterialsNeeded)
	assert.Equal(t, "intermediate", plan.Difficulty)
}

func TestDemoWriterEmptyMaterials(t *testing.T) {
	plan, err := DemoWriter{}.Generate(context.Background(), &models.Product{Name: "Mug"})
	require.NoError(t, err)
	assert.NotNil(t, plan.MaterialsNeeded)
	assert.Empty(t, plan.MaterialsNeeded)
}

func TestDemoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DemoWriter{}.Generate(ctx, &models.Product{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = DemoAdvisor{}.Suggest(ctx, &models.Product{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoAdvisor(t *testing.T) {
	s, err := DemoAdvisor{}.Suggest(context.Background(), &models.Product{Name: "Vase", Category: "pottery"})
	require.NoError(t, err)
	assert.Equal(t, "79.99", s.SuggestedPrice.StringFixed(2))
	assert.InDelta(t, 0.87, s.Confidence, 1e-9)
	assert.Contains(t, s.Analysis, "pottery")
}
