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

type CaseRow struct {
	models.Case
	CustomerName string
}

func (r CaseRow) StatusColor() string   { return CaseStatusColor(r.CaseStatus) }
func (r CaseRow) PriorityColor() string { return PriorityColor(r.Priority) }
func (r CaseRow) CreatedText() string   { return utils.DisplayDateTime(r.CreatedDate) }
func (r CaseRow) UpdatedText() string   { return utils.DisplayDateTime(r.LastUpdated) }

var caseFilter = listing.NewFilter(
	col("id", "ID", func(r CaseRow) string { return r.ID }),
	col("customer", "Customer", func(r CaseRow) string { return r.CustomerName }),
	col("category", "Category", func(r CaseRow) string { return r.Category }),
	col("status", "Status", func(r CaseRow) string { return r.CaseStatus }),
	col("priority", "Priority", func(r CaseRow) string { return r.Priority }),
	col("assigned_to", "Assigned To", func(r CaseRow) string { return r.AssignedAgent }),
	col("created_at", "Created At", func(r CaseRow) string { return r.CreatedText() }),
	col("last_updated", "Last Updated", func(r CaseRow) string { return r.UpdatedText() }),
)

type CaseService struct {
	API apiclient.API
	Now func() time.Time
}

type CasePage struct {
	Rows      []CaseRow
	Filter    FilterView
	Customers []form.Choice
	// CardsByCustomer feeds the dependent card select.
	CardsByCustomer map[string][]models.Card
}

func (s CaseService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// NewForm builds the case form. Choosing a customer narrows the card select
// to that customer's cards.
func (s CaseService) NewForm(customers []form.Choice, cardsByCustomer map[string][]models.Card) *form.Form {
	var f *form.Form
	f = form.New("Case", []form.Field{
		form.Select(form.CustomerField, "Customer", customers),
		form.Select("card_id", "Card", nil),
		form.Select("category", "Category", form.Choices(CaseCategories...)),
		form.Select("case_status", "Status", form.Choices(CaseStatuses...)),
		form.Select("priority", "Priority", form.Choices(CasePriorities...)),
		form.Select("assigned_agent", "Assigned Agent", form.Choices(Agents...)),
		form.TextArea("notes", "Notes"),
	}, form.WithCustomerChange(func(customerID string) {
		f.SetOptions("card_id", cardChoices(cardsByCustomer[customerID]))
	}))
	return f
}

// OpenCase opens f for c, or blank when c is nil, with the card select
// narrowed to the case's customer.
func OpenCase(f *form.Form, c *models.Case, cardsByCustomer map[string][]models.Card) {
	if c == nil {
		f.Open(nil)
		f.SetOptions("card_id", nil)
		return
	}
	f.Open(CaseRecord(*c))
	f.SetOptions("card_id", cardChoices(cardsByCustomer[c.CustomerID]))
}

func (s CaseService) List(ctx context.Context, q Query) (CasePage, error) {
	page := CasePage{Filter: filterView(caseFilter, q, 0, 0)}

	cases, err := s.API.ListCases(ctx)
	if err != nil {
		logEvent(ctx, "cases", "list_failed", err.Error())
		return page, err
	}
	customers, err := s.API.ListCustomers(ctx)
	if err != nil {
		logEvent(ctx, "cases", "list_customers_failed", err.Error())
		return page, err
	}
	cards, err := s.API.ListCards(ctx)
	if err != nil {
		logEvent(ctx, "cases", "list_cards_failed", err.Error())
		return page, err
	}

	byCustomer := listing.Index(customers, func(c models.Customer) string { return c.ID })
	rows := make([]CaseRow, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, CaseRow{Case: c, CustomerName: customerName(byCustomer, c.CustomerID)})
	}
	shown := caseFilter.Apply(rows, q.Filter, q.Q)
	page.Rows = shown
	page.Filter = filterView(caseFilter, q, len(rows), len(shown))
	page.Customers = customerChoices(customers)
	page.CardsByCustomer = listing.Group(cards, func(c models.Card) string { return c.CustomerID })
	return page, nil
}

func CaseRecord(c models.Case) form.Record {
	return form.Record{
		"id":             c.ID,
		"customer_id":    c.CustomerID,
		"card_id":        c.CardID,
		"category":       c.Category,
		"case_status":    c.CaseStatus,
		"priority":       c.Priority,
		"assigned_agent": c.AssignedAgent,
		"notes":          c.Notes,
		"created_date":   c.CreatedDate,
		"last_updated":   c.LastUpdated,
	}
}

func caseFromRecord(rec form.Record) models.Case {
	return models.Case{
		CustomerID:    rec.String("customer_id"),
		CardID:        rec.String("card_id"),
		Category:      rec.String("category"),
		CaseStatus:    rec.String("case_status"),
		Priority:      rec.String("priority"),
		AssignedAgent: rec.String("assigned_agent"),
		Notes:         strings.TrimSpace(rec.String("notes")),
	}
}

// Save stamps created_date and last_updated on create. Updates never send
// the creation date.
func (s CaseService) Save(ctx context.Context, id string, rec form.Record) error {
	c := caseFromRecord(rec)
	if id == "" {
		now := s.now().Format(time.RFC3339)
		c.CreatedDate = now
		c.LastUpdated = now
		created, err := s.API.CreateCase(ctx, c)
		if err != nil {
			logEvent(ctx, "cases", "create_failed", err.Error())
			return err
		}
		logEvent(ctx, "cases", "create", "id="+created.ID)
		return nil
	}
	c.ID = id
	c.LastUpdated = rec.String("last_updated")
	if _, err := s.API.UpdateCase(ctx, id, c); err != nil {
		logEvent(ctx, "cases", "update_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "cases", "update", "id="+id)
	return nil
}

func (s CaseService) Delete(ctx context.Context, id string) error {
	if err := s.API.DeleteCase(ctx, id); err != nil {
		logEvent(ctx, "cases", "delete_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "cases", "delete", "id="+id)
	return nil
}

// CardsFor returns the ids of a customer's cards for the dependent select.
func (s CaseService) CardsFor(ctx context.Context, customerID string) ([]string, error) {
	cards, err := s.API.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, c := range cards {
		if c.CustomerID == customerID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}
