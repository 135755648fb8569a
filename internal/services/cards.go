package services

import (
	"context"
	"strings"
	"time"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

const (
	StatusActive  = "Active"
	StatusBlocked = "Blocked"
)

// CardRow is a card with its owner's name resolved.
type CardRow struct {
	models.Card
	CustomerName string
}

func (r CardRow) StatusColor() string { return StatusColor(r.Status) }
func (r CardRow) TypeColor() string   { return TypeColor(r.Type) }
func (r CardRow) BalanceText() string { return utils.FormatDollars(r.Balance.Float()) }

var cardFilter = listing.NewFilter(
	col("id", "ID", func(r CardRow) string { return r.ID }),
	col("type", "Type", func(r CardRow) string { return r.Type }),
	col("status", "Status", func(r CardRow) string { return r.Status }),
	col("balance", "Balance", func(r CardRow) string { return amountText(r.Balance) }),
	col("customer", "Customer", func(r CardRow) string { return r.CustomerName }),
	col("issue_date", "Issue Date", func(r CardRow) string { return r.IssueDate }),
)

type CardService struct {
	API apiclient.API
	Now func() time.Time
}

type CardPage struct {
	Rows      []CardRow
	Filter    FilterView
	Customers []form.Choice
	UpdatedAt time.Time
}

func (s CardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s CardService) NewForm(customers []form.Choice) *form.Form {
	return form.New("Product", []form.Field{
		form.Text("id", "Product ID"),
		form.Select("type", "Type", form.Choices(CardTypes...)),
		form.Select("status", "Status", form.Choices(CardStatuses...)),
		form.BalanceField("Balance"),
		form.Select(form.CustomerField, "Customer", customers),
	})
}

// List fetches cards and customers and resolves owner names once.
func (s CardService) List(ctx context.Context, q Query) (CardPage, error) {
	page := CardPage{Filter: filterView(cardFilter, q, 0, 0), UpdatedAt: s.now()}

	cards, err := s.API.ListCards(ctx)
	if err != nil {
		logEvent(ctx, "cards", "list_failed", err.Error())
		return page, err
	}
	customers, err := s.API.ListCustomers(ctx)
	if err != nil {
		logEvent(ctx, "cards", "list_customers_failed", err.Error())
		return page, err
	}

	rows := joinCards(cards, customers)
	shown := cardFilter.Apply(rows, q.Filter, q.Q)
	page.Rows = shown
	page.Filter = filterView(cardFilter, q, len(rows), len(shown))
	page.Customers = customerChoices(customers)
	return page, nil
}

func joinCards(cards []models.Card, customers []models.Customer) []CardRow {
	byCustomer := listing.Index(customers, func(c models.Customer) string { return c.ID })
	rows := make([]CardRow, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, CardRow{Card: c, CustomerName: customerName(byCustomer, c.CustomerID)})
	}
	return rows
}

func CardRecord(c models.Card) form.Record {
	return form.Record{
		"id":          c.ID,
		"type":        c.Type,
		"status":      c.Status,
		"balance":     amountText(c.Balance),
		"customer_id": c.CustomerID,
		"issue_date":  c.IssueDate,
	}
}

func cardFromRecord(rec form.Record) models.Card {
	return models.Card{
		ID:         utils.TrimOrEmpty(rec.String("id")),
		Type:       rec.String("type"),
		Status:     rec.String("status"),
		Balance:    parseAmount(rec["balance"]),
		IssueDate:  rec.String("issue_date"),
		CustomerID: rec.String(form.CustomerField),
	}
}

// Save creates the card when id is empty and updates the card at id otherwise.
func (s CardService) Save(ctx context.Context, id string, rec form.Record) error {
	c := cardFromRecord(rec)
	if id == "" {
		created, err := s.API.CreateCard(ctx, c)
		if err != nil {
			logEvent(ctx, "cards", "create_failed", "id="+c.ID+" err="+err.Error())
			return err
		}
		logEvent(ctx, "cards", "create", "id="+created.ID)
		return nil
	}
	if c.ID == "" {
		c.ID = id
	}
	if _, err := s.API.UpdateCard(ctx, id, c); err != nil {
		logEvent(ctx, "cards", "update_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "cards", "update", "id="+id)
	return nil
}

func (s CardService) Delete(ctx context.Context, id string) error {
	if err := s.API.DeleteCard(ctx, id); err != nil {
		logEvent(ctx, "cards", "delete_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "cards", "delete", "id="+id)
	return nil
}

// ToggleBlock blocks an unblocked card and re-activates a blocked one.
func (s CardService) ToggleBlock(ctx context.Context, id string) (models.Card, error) {
	card, err := s.API.GetCard(ctx, id)
	if err != nil {
		return models.Card{}, err
	}
	if strings.EqualFold(card.Status, StatusBlocked) {
		card.Status = StatusActive
	} else {
		card.Status = StatusBlocked
	}
	updated, err := s.API.UpdateCard(ctx, id, card)
	if err != nil {
		logEvent(ctx, "cards", "toggle_block_failed", "id="+id+" err="+err.Error())
		return models.Card{}, err
	}
	logEvent(ctx, "cards", "toggle_block", "id="+id+" status="+card.Status)
	if updated.ID == "" {
		updated = card
	}
	return updated, nil
}
