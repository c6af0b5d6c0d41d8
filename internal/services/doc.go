// Package services holds shared helpers for external service clients:
// sentinel error markers with contextual wrapping, and context annotations
// used for log correlation across the import pipeline.
package services
