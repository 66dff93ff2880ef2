package api

import (
	"fmt"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

// GetRDI fetches one RDI snapshot. date is only used for RDIDate.
func (c *Client) GetRDI(variant models.RDIVariant, date time.Time) (*models.RDISnapshot, error) {
	var path string
	switch variant {
	case models.RDIToday, models.RDIBase, models.RDIWeek, models.RDIMonth:
		path = apiRDI + "/" + string(variant)
	case models.RDIDate:
		path = fmt.Sprintf("%s/date?date=%s", apiRDI, date.Format(time.DateOnly))
	default:
		return nil, fmt.Errorf("unsupported RDI variant %q", variant)
	}
	var snap models.RDISnapshot
	if err := c.getJSON(path, &snap); err != nil {
		return nil, err
	}
	if snap.Variant == "" {
		snap.Variant = variant
	}
	snap.Nutrients = models.SortNutrients(snap.Nutrients)
	return &snap, nil
}
