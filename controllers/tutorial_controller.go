package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/storage"
)

// GenerateTutorial asks the tutorial writer for a plan, stores it and
// returns the generated steps.
func (h *Handler) GenerateTutorial(c *gin.Context) {
	productID, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.Tutorials.Generate(ctx, middleware.CurrentUserID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"tutorialId": view.ID,
		"tutorial":   view.Plan,
	})
}

func (h *Handler) UploadTutorial(c *gin.Context) {
	productID, valid := paramID(c, "id")
	if !valid {
		return
	}

	video, err := c.FormFile("video")
	if err != nil {
		badRequest(c, "Tutorial video is required")
		return
	}
	videoPath, err := h.Uploads.Save(video, storage.KindVideo)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := h.Tutorials.Upload(ctx, middleware.CurrentUserID(c), productID, videoPath, c.PostForm("description"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Tutorial uploaded", "data": view})
}

func (h *Handler) ProductTutorials(c *gin.Context) {
	productID, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tutorials, err := h.Tutorials.ForProduct(ctx, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, tutorials)
}
