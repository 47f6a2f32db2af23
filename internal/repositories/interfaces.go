package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/vendorcast/internal/models"
)

type PredictionRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, rec *models.PredictionRecord) error
	ListByVendor(ctx context.Context, vendorID string, limit int) ([]*models.PredictionRecord, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// EncodeItems stores item demand as a JSON object in item order.
func EncodeItems(items models.ItemDemand) (string, error) {
	if items == nil {
		items = models.ItemDemand{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(data), nil
}

func DecodeItems(s string) (models.ItemDemand, error) {
	var items models.ItemDemand
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}
