// Package siteconfig serves the two read-only JSON documents the frontend
// fetches at startup: school metadata (locations, active license classes,
// texts) and the image manifest.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Documents holds the raw JSON of both config files. Loaded once at startup
// and never mutated.
type Documents struct {
	Config json.RawMessage
	Images json.RawMessage
}

// Load reads and validates both documents. A missing file loads as an empty
// object with a warning, so a misplaced deployment still serves the site;
// a present but invalid file is an error.
func Load(configPath, imagesPath string, logger *zap.Logger) (*Documents, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := loadDocument(configPath, logger)
	if err != nil {
		return nil, err
	}
	img, err := loadDocument(imagesPath, logger)
	if err != nil {
		return nil, err
	}
	return &Documents{Config: cfg, Images: img}, nil
}

func loadDocument(path string, logger *zap.Logger) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("site config document missing, serving empty object", zap.String("path", path))
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("parse %s: not valid JSON", path)
	}
	return json.RawMessage(data), nil
}
