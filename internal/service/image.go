package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/models"
)

// imageGenerationRequest is the request body for the images API.
type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url,omitempty"`
	} `json:"data"`
}

// ImageService generates a photo for a recipe and stores it in S3. It is
// optional: when not configured, recipes are saved without an image URL.
type ImageService struct {
	client   *resty.Client
	cfg      config.ImagesConfig
	s3Config *config.S3Config
	logger   *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(cfg config.ImagesConfig, s3Config *config.S3Config, logger *zap.Logger) (*ImageService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("images API key must be set")
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &ImageService{
		client:   client,
		cfg:      cfg,
		s3Config: s3Config,
		logger:   logger,
	}, nil
}

// GenerateRecipeImage generates an image for the recipe and returns its
// public URL. If the S3 upload fails, the upstream image URL is returned as
// a fallback.
func (s *ImageService) GenerateRecipeImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	prompt := buildImagePrompt(recipe)

	reqBody := imageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		ResponseFormat: "url",
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		Post(s.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("failed to send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("image API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("no image data in API response")
	}

	imageURL := result.Data[0].URL
	s3URL, err := s.downloadAndUploadToS3(ctx, imageURL)
	if err != nil {
		s.logger.Warn("failed to upload recipe image to S3, keeping upstream URL", zap.Error(err))
		return imageURL, nil
	}
	return s3URL, nil
}

func (s *ImageService) downloadAndUploadToS3(ctx context.Context, imageURL string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode())
	}

	fileName := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())
	return s.UploadImageToS3(ctx, resp.Body(), fileName)
}

// UploadImageToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) UploadImageToS3(ctx context.Context, imageData []byte, fileName string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.s3Config.ObjectURL(fileName), nil
}

// buildImagePrompt creates a food-photography prompt from the recipe.
func buildImagePrompt(recipe *models.Recipe) string {
	prompt := "A professional food photography shot of " + strings.ToLower(recipe.Title)
	if recipe.Description != "" {
		prompt += ", " + strings.ToLower(recipe.Description)
	}
	if recipe.CuisineType != "" {
		prompt += fmt.Sprintf(", %s style", strings.ToLower(recipe.CuisineType))
	}
	prompt += ", shot with natural lighting, shallow depth of field, restaurant quality presentation"

	if len(prompt) > 900 {
		prompt = prompt[:900]
	}
	return prompt
}
