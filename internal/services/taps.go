package services

import (
	"context"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

var tapFilter = listing.NewFilter(
	col("id", "ID", func(t models.TapHistory) string { return t.ID }),
	col("location", "Location", func(t models.TapHistory) string { return t.Location }),
	col("device_id", "Device ID", func(t models.TapHistory) string { return t.DeviceID }),
	col("transit_mode", "Transit Mode", func(t models.TapHistory) string { return t.TransitMode }),
	col("direction", "Direction", func(t models.TapHistory) string { return t.Direction }),
	col("customer_id", "Customer ID", func(t models.TapHistory) string { return t.CustomerID }),
	col("result", "Result", func(t models.TapHistory) string { return t.Result }),
)

// TapService backs the transaction history page. Records are edit-only.
type TapService struct {
	API apiclient.API
}

type TapPage struct {
	Rows   []models.TapHistory
	Filter FilterView
}

func (s TapService) NewForm() *form.Form {
	return form.New("Tap Correction", []form.Field{
		form.TapTimeField("Tap Time"),
		form.Text("location", "Location"),
		form.Text("device_id", "Device ID"),
		form.Text("transit_mode", "Transit Mode"),
		form.Text("direction", "Direction"),
		form.Text("customer_id", "Customer ID"),
		form.Text("result", "Result"),
	})
}

func (s TapService) List(ctx context.Context, q Query) (TapPage, error) {
	taps, err := s.API.ListTapHistory(ctx)
	if err != nil {
		logEvent(ctx, "taps", "list_failed", err.Error())
		return TapPage{Filter: filterView(tapFilter, q, 0, 0)}, err
	}
	rows := tapFilter.Apply(taps, q.Filter, q.Q)
	return TapPage{Rows: rows, Filter: filterView(tapFilter, q, len(taps), len(rows))}, nil
}

func TapRecord(t models.TapHistory) form.Record {
	return form.Record{
		"id":           t.ID,
		"tap_time":     t.TapTime,
		"location":     t.Location,
		"device_id":    t.DeviceID,
		"transit_mode": t.TransitMode,
		"direction":    t.Direction,
		"customer_id":  t.CustomerID,
		"result":       t.Result,
	}
}

func (s TapService) Update(ctx context.Context, id string, rec form.Record) error {
	t := models.TapHistory{
		ID:          id,
		TapTime:     rec.String("tap_time"),
		Location:    utils.TrimOrEmpty(rec.String("location")),
		DeviceID:    utils.TrimOrEmpty(rec.String("device_id")),
		TransitMode: utils.TrimOrEmpty(rec.String("transit_mode")),
		Direction:   utils.TrimOrEmpty(rec.String("direction")),
		CustomerID:  utils.TrimOrEmpty(rec.String("customer_id")),
		Result:      utils.TrimOrEmpty(rec.String("result")),
	}
	if _, err := s.API.UpdateTapHistory(ctx, id, t); err != nil {
		logEvent(ctx, "taps", "update_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "taps", "update", "id="+id)
	return nil
}

// Find scans the tap list; the API has no single-record read.
func (s TapService) Find(ctx context.Context, id string) (models.TapHistory, error) {
	taps, err := s.API.ListTapHistory(ctx)
	if err != nil {
		return models.TapHistory{}, err
	}
	for _, t := range taps {
		if t.ID == id {
			return t, nil
		}
	}
	return models.TapHistory{}, domain.NotFoundError{Resource: "tap_history"}
}
