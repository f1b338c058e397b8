// Package parser provides the extractor interface, the shared base embedded
// by every extractor and the registry that maps formats to extractors.
package parser

import (
	"fjacquet/statement-import/internal/logging"
)

// BaseParser provides common functionality for all extractor implementations.
//
// Extractors embed BaseParser to inherit logger handling:
//
//	type MyExtractor struct {
//		parser.BaseParser
//		// extractor-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{
		logger: logging.OrDefault(logger),
	}
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		b.logger = logging.OrDefault(nil)
	}
	return b.logger
}
