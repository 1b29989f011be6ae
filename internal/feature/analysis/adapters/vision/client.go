// Package vision provides image label detection using the Google Cloud
// Vision API.
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"imagevault_backend/internal/feature/analysis/usecase"
)

// maxLabelResults bounds the annotation request; the usecase caps the
// final category list separately.
const maxLabelResults = 10

// VisionLabelDetector detects descriptive labels in images.
type VisionLabelDetector struct {
	client *gvision.ImageAnnotatorClient
}

var _ usecase.LabelDetector = (*VisionLabelDetector)(nil)

// NewVisionLabelDetector creates a detector using Application Default
// Credentials.
func NewVisionLabelDetector(ctx context.Context) (*VisionLabelDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionLabelDetector{client: client}, nil
}

// Close releases the Vision API client.
func (v *VisionLabelDetector) Close() error {
	return v.client.Close()
}

// DetectLabels returns the label descriptions found in the image.
func (v *VisionLabelDetector) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxLabelResults},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	labels := make([]string, 0, len(resp.Responses[0].LabelAnnotations))
	for _, label := range resp.Responses[0].LabelAnnotations {
		labels = append(labels, label.Description)
	}
	return labels, nil
}
