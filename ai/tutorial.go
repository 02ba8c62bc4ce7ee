// Package ai holds the generative collaborators: tutorial writing and price
// suggestion. Both are capability interfaces with demo implementations that
// return canned answers shaped like a real model's output.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Team-Name-exists/Heritiq/models"
)

// TutorialWriter produces a step-by-step making-of plan for a product. It
// must not have side effects.
type TutorialWriter interface {
	Generate(ctx context.Context, product *models.Product) (*models.TutorialPlan, error)
}

type DemoWriter struct{}

func (DemoWriter) Generate(ctx context.Context, product *models.Product) (*models.TutorialPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	category := strings.ToLower(product.Category)

	return &models.TutorialPlan{
		Title:       fmt.Sprintf("How to Create %s", product.Name),
		Description: fmt.Sprintf("Learn to craft your own %s, a handmade %s piece.", product.Name, category),
		Steps: []models.TutorialStep{
			{
				StepNumber:  1,
				Title:       "Prepare materials",
				Description: "Gather all the materials and tools you need and lay them out on a clean workspace.",
				Tips:        []string{"Measure twice before cutting", "Keep your tools within reach"},
			},
			{
				StepNumber:  2,
				Title:       "Basic shaping",
				Description: fmt.Sprintf("Form the base structure of the %s piece.", category),
				Tips:        []string{"Work slowly at first", "Check proportions often"},
			},
			{
				StepNumber:  3,
				Title:       "Adding details",
				Description: "Add the decorative elements that give the piece its character.",
				Tips:        []string{"Use reference images", "Step back to judge the overall look"},
			},
			{
				StepNumber:  4,
				Title:       "Finishing touches",
				Description: "Clean up edges, apply any finish and let the piece cure.",
				Tips:        []string{"Let each coat dry fully", "Inspect in natural light"},
			},
		},
		EstimatedTime:   "2-3 hours",
		Difficulty:      "intermediate",
		MaterialsNeeded: splitMaterials(product.Materials),
	}, nil
}

func splitMaterials(raw string) []string {
	materials := []string{}
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			materials = append(materials, m)
		}
	}
	return materials
}
