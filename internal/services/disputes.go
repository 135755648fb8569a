package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

const (
	disputeAddNotice = "Validation Error: Please fill in all required fields"
	// DeleteConfirmText is shown by the dispute delete dialog.
	DeleteConfirmText = "Are you sure you want to delete this fare dispute?"
)

type DisputeRow struct {
	models.FareDispute
}

func (r DisputeRow) IDText() string     { return strconv.Itoa(r.ID) }
func (r DisputeRow) AmountText() string { return utils.FormatDollars(r.Amount.Float()) }
func (r DisputeRow) DateText() string   { return utils.DisplayDate(r.DisputeDate) }

var disputeFilter = listing.NewFilter(
	col("id", "ID", func(r DisputeRow) string { return r.IDText() }),
	col("card_id", "Card ID", func(r DisputeRow) string { return r.CardID }),
	col("amount", "Amount", func(r DisputeRow) string { return amountText(r.Amount) }),
	col("description", "Description", func(r DisputeRow) string { return r.Description }),
	col("trip_id", "Trip ID", func(r DisputeRow) string { return r.TripID }),
	col("dispute_type", "Dispute Type", func(r DisputeRow) string { return r.DisputeType }),
	col("dispute_date", "Dispute Date", func(r DisputeRow) string { return r.DateText() }),
)

// DisputeInput is the add and edit dialog state of the fare disputes page.
type DisputeInput struct {
	DisputeDate string `form:"dispute_date"`
	CardID      string `form:"card_id"`
	Amount      string `form:"amount"`
	Description string `form:"description"`
	TripID      string `form:"trip_id"`
	DisputeType string `form:"dispute_type"`

	Errors map[string]string `form:"-"`
	Notice string            `form:"-"`
}

func DisputeInputFrom(d models.FareDispute) DisputeInput {
	return DisputeInput{
		DisputeDate: utils.Truncate(d.DisputeDate, 10),
		CardID:      d.CardID,
		Amount:      amountText(d.Amount),
		Description: d.Description,
		TripID:      d.TripID,
		DisputeType: d.DisputeType,
	}
}

func (in *DisputeInput) fail(field, msg string) {
	if in.Errors == nil {
		in.Errors = map[string]string{}
	}
	in.Errors[field] = msg
}

func disputeAmount(raw string) (float64, string) {
	if strings.TrimSpace(raw) == "" {
		return 0, "Amount is required"
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) {
		return 0, "Amount must be a valid number"
	}
	if n <= 0 {
		return 0, "Amount must be greater than 0"
	}
	return n, ""
}

// ValidateAdd requires every field and a positive amount.
func (in *DisputeInput) ValidateAdd() bool {
	in.Errors = nil
	required := []struct{ field, label, value string }{
		{"dispute_date", "Dispute Date", in.DisputeDate},
		{"card_id", "Card ID", in.CardID},
		{"description", "Description", in.Description},
		{"trip_id", "Trip ID", in.TripID},
		{"dispute_type", "Dispute Type", in.DisputeType},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			in.fail(r.field, r.label+" is required")
		}
	}
	if _, msg := disputeAmount(in.Amount); msg != "" {
		in.fail("amount", msg)
	}
	if len(in.Errors) > 0 {
		in.Notice = disputeAddNotice
		return false
	}
	in.Notice = ""
	return true
}

// ValidateEdit checks only the amount.
func (in *DisputeInput) ValidateEdit() bool {
	in.Errors = nil
	in.Notice = ""
	if _, msg := disputeAmount(in.Amount); msg != "" {
		in.fail("amount", msg)
		in.Notice = msg
		return false
	}
	return true
}

func (in DisputeInput) errorsAsDomain() error {
	for _, field := range []string{"dispute_date", "card_id", "amount", "description", "trip_id", "dispute_type"} {
		if msg, ok := in.Errors[field]; ok {
			return domain.ValidationError{Field: field, Msg: msg}
		}
	}
	return domain.ValidationError{Msg: in.Notice}
}

func (in DisputeInput) record() models.FareDispute {
	n, _ := disputeAmount(in.Amount)
	return models.FareDispute{
		DisputeDate: strings.TrimSpace(in.DisputeDate),
		CardID:      strings.TrimSpace(in.CardID),
		Amount:      models.Amount(n),
		Description: strings.TrimSpace(in.Description),
		TripID:      strings.TrimSpace(in.TripID),
		DisputeType: in.DisputeType,
	}
}

type DisputeService struct {
	API apiclient.API
}

type DisputePage struct {
	Rows   []DisputeRow
	Filter FilterView
	Cards  []string
	// Trips are the trips of the add dialog's chosen card.
	Trips []string
}

func (s DisputeService) List(ctx context.Context, q Query, cardID string) (DisputePage, error) {
	page := DisputePage{Filter: filterView(disputeFilter, q, 0, 0)}

	disputes, err := s.API.ListFareDisputes(ctx)
	if err != nil {
		logEvent(ctx, "disputes", "list_failed", err.Error())
		return page, err
	}
	rows := make([]DisputeRow, 0, len(disputes))
	for _, d := range disputes {
		rows = append(rows, DisputeRow{FareDispute: d})
	}
	shown := disputeFilter.Apply(rows, q.Filter, q.Q)
	page.Rows = shown
	page.Filter = filterView(disputeFilter, q, len(rows), len(shown))

	// dropdown failures leave the dialog selects empty
	if cards, err := s.API.ListCards(ctx); err == nil {
		for _, c := range cards {
			page.Cards = append(page.Cards, c.ID)
		}
	}
	if cardID != "" {
		page.Trips, _ = s.TripsFor(ctx, cardID)
	}
	return page, nil
}

// TripsFor lists the trip ids recorded on a card.
func (s DisputeService) TripsFor(ctx context.Context, cardID string) ([]string, error) {
	trips, err := s.API.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, t := range trips {
		if t.CardID == cardID {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (s DisputeService) Find(ctx context.Context, id int) (models.FareDispute, error) {
	disputes, err := s.API.ListFareDisputes(ctx)
	if err != nil {
		return models.FareDispute{}, err
	}
	for _, d := range disputes {
		if d.ID == id {
			return d, nil
		}
	}
	return models.FareDispute{}, domain.NotFoundError{Resource: "fare_dispute"}
}

// Add validates in and creates the dispute. Validation failures leave their
// messages on in and return a domain.ValidationError.
func (s DisputeService) Add(ctx context.Context, in *DisputeInput) error {
	if !in.ValidateAdd() {
		return in.errorsAsDomain()
	}
	created, err := s.API.CreateFareDispute(ctx, in.record())
	if err != nil {
		logEvent(ctx, "disputes", "create_failed", err.Error())
		return err
	}
	logEvent(ctx, "disputes", "create", "id="+strconv.Itoa(created.ID))
	return nil
}

func (s DisputeService) Update(ctx context.Context, id int, in *DisputeInput) error {
	if !in.ValidateEdit() {
		return in.errorsAsDomain()
	}
	if _, err := s.API.UpdateFareDispute(ctx, id, in.record()); err != nil {
		logEvent(ctx, "disputes", "update_failed", "id="+strconv.Itoa(id)+" err="+err.Error())
		return err
	}
	logEvent(ctx, "disputes", "update", "id="+strconv.Itoa(id))
	return nil
}

func (s DisputeService) Delete(ctx context.Context, id int) error {
	if err := s.API.DeleteFareDispute(ctx, id); err != nil {
		logEvent(ctx, "disputes", "delete_failed", "id="+strconv.Itoa(id)+" err="+err.Error())
		return err
	}
	logEvent(ctx, "disputes", "delete", "id="+strconv.Itoa(id))
	return nil
}
