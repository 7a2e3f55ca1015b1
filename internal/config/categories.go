package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/shedtally/internal/classification"
)

// LoadClassifier builds the sheep type classifier from sheep_types.categories,
// falling back to the compiled-in buckets when the key is absent or empty.
func LoadClassifier() (*classification.Classifier, error) {
	var categories []classification.Category
	if err := viper.UnmarshalKey("sheep_types.categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to read sheep_types.categories: %w", err)
	}
	if len(categories) == 0 {
		categories = classification.DefaultCategories()
	}

	cls, err := classification.NewClassifier(categories)
	if err != nil {
		return nil, fmt.Errorf("invalid sheep_types.categories: %w", err)
	}
	return cls, nil
}
