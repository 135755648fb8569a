package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

// readOnlyPrefix marks trips recorded by the fare system that the console
// must not edit, delete or dispute.
const readOnlyPrefix = "RID"

type TripRow struct {
	models.Trip
	ReadOnly bool
}

func newTripRow(t models.Trip) TripRow {
	return TripRow{Trip: t, ReadOnly: strings.HasPrefix(t.ID, readOnlyPrefix)}
}

// Cell hides the value of read-only trips.
func (r TripRow) Cell(v string) string {
	if r.ReadOnly {
		return "-"
	}
	return v
}

func (r TripRow) FareText() string  { return utils.FormatDollars(r.Fare.Float()) }
func (r TripRow) StartText() string { return utils.DisplayDateTime(r.StartTime) }
func (r TripRow) EndText() string   { return utils.DisplayDateTime(r.EndTime) }

func (r TripRow) StatusText() string {
	if r.Incomplete() {
		return "Incomplete"
	}
	return "Complete"
}

var tripFilter = listing.NewFilter(
	col("id", "Trip ID", func(t models.Trip) string { return t.ID }),
	col("card_id", "Card ID", func(t models.Trip) string { return t.CardID }),
	col("entry_location", "Entry Location", func(t models.Trip) string { return t.EntryLocation }),
	col("exit_location", "Exit Location", func(t models.Trip) string { return t.ExitLocation }),
	col("fare", "Fare", func(t models.Trip) string { return amountText(t.Fare) }),
	col("route", "Route", func(t models.Trip) string { return t.Route }),
	col("operator", "Operator", func(t models.Trip) string { return t.Operator }),
	col("transit_mode", "Transit Mode", func(t models.Trip) string { return t.TransitMode }),
	col("adjustable", "Adjustable", func(t models.Trip) string { return t.Adjustable }),
	col("start_time", "Start Time", func(t models.Trip) string { return t.StartTime }),
	col("end_time", "End Time", func(t models.Trip) string { return t.EndTime }),
)

// TripFilters are the advanced filters of the purchases page.
type TripFilters struct {
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Route         string `form:"route"`
	MinFare       string `form:"min_fare"`
	MaxFare       string `form:"max_fare"`
	ExitLocation  string `form:"exit_location"`
	TransitMode   string `form:"transit_mode"`
	Adjustable    string `form:"adjustable"`
	Operator      string `form:"operator"`
	EntryLocation string `form:"entry_location"`
}

// Apply keeps trips matching every non-empty filter. A date filter drops
// trips whose timestamp cannot be read; an unparseable fare bound is ignored.
func (f TripFilters) Apply(trips []models.Trip) []models.Trip {
	from, hasFrom := utils.ParseTimestamp(f.StartDate)
	until, hasUntil := utils.ParseTimestamp(f.EndDate)
	if hasUntil && !strings.Contains(f.EndDate, "T") {
		until = until.Add(24*time.Hour - time.Nanosecond)
	}
	minFare, hasMin := parseBound(f.MinFare)
	maxFare, hasMax := parseBound(f.MaxFare)
	route := lower(f.Route)
	exit := lower(f.ExitLocation)

	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if hasFrom {
			start, ok := utils.ParseTimestamp(t.StartTime)
			if !ok || start.Before(from) {
				continue
			}
		}
		if hasUntil {
			end, ok := utils.ParseTimestamp(t.EndTime)
			if !ok || end.After(until) {
				continue
			}
		}
		if route != "" && !strings.Contains(lower(t.Route), route) {
			continue
		}
		if hasMin && t.Fare.Float() < minFare {
			continue
		}
		if hasMax && t.Fare.Float() > maxFare {
			continue
		}
		if exit != "" && !strings.Contains(lower(t.ExitLocation), exit) {
			continue
		}
		if f.TransitMode != "" && t.TransitMode != f.TransitMode {
			continue
		}
		if f.Adjustable != "" && t.Adjustable != f.Adjustable {
			continue
		}
		if f.Operator != "" && t.Operator != f.Operator {
			continue
		}
		if f.EntryLocation != "" && t.EntryLocation != f.EntryLocation {
			continue
		}
		out = append(out, t)
	}
	return out
}

func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

type TripService struct {
	API apiclient.API
	Now func() time.Time
}

type TripPage struct {
	Rows     []TripRow
	Filter   FilterView
	Advanced TripFilters
	Cards    []form.Choice
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s TripService) NewForm(cards []form.Choice) *form.Form {
	locations := form.Choices(Locations...)
	return form.New("Trip", []form.Field{
		form.Select("card_id", "Card", cards),
		form.DateTime("start_time", "Start Time"),
		form.DateTime("end_time", "End Time"),
		form.Select("entry_location", "Entry Location", locations),
		form.Select("exit_location", "Exit Location", locations),
		form.FareField("Fare"),
		form.Text("route", "Route"),
		form.Select("operator", "Operator", form.Choices(Operators...)),
		form.Select("transit_mode", "Transit Mode", form.Choices(TransitModes...)),
		form.Select("adjustable", "Adjustable", form.Choices(AdjustableOptions...)),
	})
}

// List returns trips newest first, narrowed by the advanced filters and then
// by the search box.
func (s TripService) List(ctx context.Context, q Query, adv TripFilters) (TripPage, error) {
	page := TripPage{Filter: filterView(tripFilter, q, 0, 0), Advanced: adv}

	trips, err := s.API.ListTrips(ctx)
	if err != nil {
		logEvent(ctx, "trips", "list_failed", err.Error())
		return page, err
	}
	cards, err := s.API.ListCards(ctx)
	if err != nil {
		logEvent(ctx, "trips", "list_cards_failed", err.Error())
		return page, err
	}

	newestFirst(trips, func(t models.Trip) string { return t.StartTime })
	shown := tripFilter.Apply(adv.Apply(trips), q.Filter, q.Q)
	page.Rows = tripRows(shown)
	page.Filter = filterView(tripFilter, q, len(trips), len(shown))
	page.Cards = cardChoices(cards)
	return page, nil
}

func tripRows(trips []models.Trip) []TripRow {
	rows := make([]TripRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, newTripRow(t))
	}
	return rows
}

func (s TripService) Get(ctx context.Context, id string) (TripRow, error) {
	t, err := s.API.GetTrip(ctx, id)
	if err != nil {
		return TripRow{}, err
	}
	return newTripRow(t), nil
}

func TripRecord(t models.Trip) form.Record {
	return form.Record{
		"id":             t.ID,
		"card_id":        t.CardID,
		"start_time":     t.StartTime,
		"end_time":       t.EndTime,
		"entry_location": t.EntryLocation,
		"exit_location":  t.ExitLocation,
		"fare":           amountText(t.Fare),
		"route":          t.Route,
		"operator":       t.Operator,
		"transit_mode":   t.TransitMode,
		"adjustable":     t.Adjustable,
	}
}

func tripFromRecord(rec form.Record) models.Trip {
	return models.Trip{
		ID:            rec.String("id"),
		CardID:        rec.String("card_id"),
		StartTime:     rec.String("start_time"),
		EndTime:       rec.String("end_time"),
		EntryLocation: rec.String("entry_location"),
		ExitLocation:  rec.String("exit_location"),
		Fare:          parseAmount(rec["fare"]),
		Route:         utils.TrimOrEmpty(rec.String("route")),
		Operator:      rec.String("operator"),
		TransitMode:   rec.String("transit_mode"),
		Adjustable:    rec.String("adjustable"),
	}
}

func readOnlyTrip(id string) error {
	return domain.ValidationError{Field: "trip", Msg: "trip " + id + " is read-only"}
}

// Save creates a trip when id is empty and updates it otherwise.
func (s TripService) Save(ctx context.Context, id string, rec form.Record) error {
	t := tripFromRecord(rec)
	if id == "" {
		t.ID = ""
		created, err := s.API.CreateTrip(ctx, t)
		if err != nil {
			logEvent(ctx, "trips", "create_failed", err.Error())
			return err
		}
		logEvent(ctx, "trips", "create", "id="+created.ID)
		return nil
	}
	if strings.HasPrefix(id, readOnlyPrefix) {
		return readOnlyTrip(id)
	}
	t.ID = id
	if _, err := s.API.UpdateTrip(ctx, id, t); err != nil {
		logEvent(ctx, "trips", "update_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "trips", "update", "id="+id)
	return nil
}

func (s TripService) Delete(ctx context.Context, id string) error {
	if strings.HasPrefix(id, readOnlyPrefix) {
		return readOnlyTrip(id)
	}
	if err := s.API.DeleteTrip(ctx, id); err != nil {
		logEvent(ctx, "trips", "delete_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "trips", "delete", "id="+id)
	return nil
}

// DisputeDraft is the trip-level dispute dialog.
type DisputeDraft struct {
	Trip        TripRow `form:"-"`
	DisputeDate string `form:"dispute_date"`
	Amount      string `form:"amount"`
	Description string `form:"description"`
	DisputeType string `form:"dispute_type"`
}

// NewDisputeDraft pre-fills the date from the trip start and the amount from its fare.
func NewDisputeDraft(t TripRow) DisputeDraft {
	return DisputeDraft{
		Trip:        t,
		DisputeDate: utils.Truncate(t.StartTime, 10),
		Amount:      amountText(t.Fare),
	}
}

// SubmitDispute files a fare dispute against trip id.
func (s TripService) SubmitDispute(ctx context.Context, id string, d DisputeDraft) error {
	if strings.HasPrefix(id, readOnlyPrefix) {
		return readOnlyTrip(id)
	}
	trip, err := s.API.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(d.Amount)
	if err != nil {
		return domain.ValidationError{Field: "amount", Msg: "Amount must be a valid number", Err: err}
	}
	date := utils.TrimOrEmpty(d.DisputeDate)
	if date == "" {
		date = utils.Truncate(trip.StartTime, 10)
	}
	created, err := s.API.CreateFareDispute(ctx, models.FareDispute{
		DisputeDate: date,
		CardID:      trip.CardID,
		Amount:      models.Amount(amount),
		Description: d.Description,
		TripID:      trip.ID,
		DisputeType: d.DisputeType,
	})
	if err != nil {
		logEvent(ctx, "trips", "dispute_failed", "trip_id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "trips", "dispute", "trip_id="+id+" dispute_id="+strconv.Itoa(created.ID))
	return nil
}

// History ranges in days and modes of the card trip history page.
var (
	HistoryRanges = []int{7, 30, 90}
	HistoryModes  = []string{"all", "bus", "subway", "rail"}
)

const incompleteWarning = "There are incomplete purchases in the history"

type HistoryQuery struct {
	Range int    `form:"range"`
	Mode  string `form:"mode"`
}

type History struct {
	CardID  string
	Range   int
	Mode    string
	Trips   []TripRow
	Warning string
}

// History lists one card's trips inside the selected day range and mode.
func (s TripService) History(ctx context.Context, cardID string, q HistoryQuery) (History, error) {
	h := History{CardID: cardID, Range: 30, Mode: "all"}
	for _, r := range HistoryRanges {
		if q.Range == r {
			h.Range = r
		}
	}
	for _, m := range HistoryModes {
		if lower(q.Mode) == m {
			h.Mode = m
		}
	}

	trips, err := s.API.ListTrips(ctx)
	if err != nil {
		logEvent(ctx, "trips", "history_failed", "card_id="+cardID+" err="+err.Error())
		return h, err
	}

	since := s.now().AddDate(0, 0, -h.Range)
	var rows []models.Trip
	for _, t := range trips {
		if t.CardID != cardID {
			continue
		}
		if h.Mode != "all" && lower(t.TransitMode) != h.Mode {
			continue
		}
		start, ok := utils.ParseTimestamp(t.StartTime)
		if !ok || start.Before(since) {
			continue
		}
		rows = append(rows, t)
	}
	newestFirst(rows, func(t models.Trip) string { return t.StartTime })
	h.Trips = tripRows(rows)
	for _, r := range h.Trips {
		if r.Incomplete() {
			h.Warning = incompleteWarning
			break
		}
	}
	return h, nil
}
