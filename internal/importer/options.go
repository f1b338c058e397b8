package importer

import "fjacquet/statement-import/internal/models"

// StageOption customizes a single Stage call.
type StageOption func(*stageOptions)

type stageOptions struct {
	profile string
	mapping *models.ColumnMapping
}

// WithProfile forces the named bank profile instead of header detection.
func WithProfile(name string) StageOption {
	return func(o *stageOptions) {
		o.profile = name
	}
}

// WithMapping supplies an explicit column mapping. It takes precedence over
// WithProfile.
func WithMapping(m models.ColumnMapping) StageOption {
	return func(o *stageOptions) {
		o.mapping = &m
	}
}
