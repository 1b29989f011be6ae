// Package entity defines the domain models for the analysis feature.
package entity

// ImageAnalysis is the structured result of analyzing one image.
// Every field is always populated; a failed or unconfigured backend
// produces a clearly-labelled fallback, never an absent result.
type ImageAnalysis struct {
	Summary      string   // Free-text summary of the image
	Categories   []string // Up to 5 short keyword categories, never empty
	Caption      string   // Short caption (first meaningful sentence)
	FullAnalysis string   // Complete analysis text as returned by the model
}
