package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/ai"
	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

type TutorialService struct {
	db     *gorm.DB
	writer ai.TutorialWriter
}

func NewTutorialService(db *gorm.DB, writer ai.TutorialWriter) *TutorialService {
	return &TutorialService{db: db, writer: writer}
}

// Generate asks the writer for a plan and stores it against the product with
// a placeholder video path.
func (s *TutorialService) Generate(ctx context.Context, sellerID, productID uint) (*models.TutorialView, error) {
	db := s.db.WithContext(ctx)
	product, err := productOwnedBy(db, sellerID, productID)
	if err != nil {
		return nil, err
	}

	plan, err := s.writer.Generate(ctx, product)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindExternalService, "Tutorial generation failed")
	}
	encoded, err := json.Marshal(plan)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindExternalService, "Tutorial generation failed")
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	tutorial := models.Tutorial{
		ProductID:   productID,
		VideoPath:   fmt.Sprintf("tutorial_%d_%s.mp4", productID, suffix),
		Description: string(encoded),
	}
	if err := db.Omit("Product").Create(&tutorial).Error; err != nil {
		return nil, apperr.FromDB(err, "tutorial not found")
	}
	return &models.TutorialView{Tutorial: tutorial, Plan: plan}, nil
}

// Upload records a seller-recorded video stored at videoPath.
func (s *TutorialService) Upload(ctx context.Context, sellerID, productID uint, videoPath, description string) (*models.TutorialView, error) {
	if videoPath == "" {
		return nil, apperr.Validation("Video is required")
	}
	db := s.db.WithContext(ctx)
	if _, err := productOwnedBy(db, sellerID, productID); err != nil {
		return nil, err
	}

	tutorial := models.Tutorial{
		ProductID:   productID,
		VideoPath:   videoPath,
		Description: strings.TrimSpace(description),
	}
	if err := db.Omit("Product").Create(&tutorial).Error; err != nil {
		return nil, apperr.FromDB(err, "tutorial not found")
	}
	return decodeTutorial(tutorial), nil
}

// ForProduct lists a product's tutorials, newest first.
func (s *TutorialService) ForProduct(ctx context.Context, productID uint) ([]*models.TutorialView, error) {
	var tutorials []models.Tutorial
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&tutorials).Error
	if err != nil {
		return nil, apperr.Persistence(err, "list tutorials")
	}
	views := make([]*models.TutorialView, 0, len(tutorials))
	for _, t := range tutorials {
		views = append(views, decodeTutorial(t))
	}
	return views, nil
}

// decodeTutorial exposes a stored plan as structured data and anything else
// as plain text.
func decodeTutorial(t models.Tutorial) *models.TutorialView {
	view := &models.TutorialView{Tutorial: t}
	var plan models.TutorialPlan
	if strings.HasPrefix(t.Description, "{") && json.Unmarshal([]byte(t.Description), &plan) == nil {
		view.Plan = &plan
		return view
	}
	view.Text = t.Description
	return view
}
