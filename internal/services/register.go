package services

import (
	"context"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/utils"
)

// RegisterService issues a new product to an existing customer.
type RegisterService struct {
	API apiclient.API
}

func (s RegisterService) NewForm(customers []models.Customer) *form.Form {
	choices := make([]form.Choice, 0, len(customers))
	for _, c := range customers {
		choices = append(choices, form.Choice{Value: c.ID, Label: c.ID + " - " + c.Name})
	}
	return form.New("Register Product", []form.Field{
		form.Text("id", "Product ID").With(form.MaxLength(16)),
		form.Select("type", "Product Type", form.Choices(RegisterTypes...)),
		form.DateTime("issue_date", "Issue Date").With(form.ValidDateTime()),
		form.Select(form.CustomerField, "Customer ID", choices),
	})
}

// Customers feeds the customer select; a failure leaves it empty.
func (s RegisterService) Customers(ctx context.Context) []models.Customer {
	customers, err := s.API.ListCustomers(ctx)
	if err != nil {
		logEvent(ctx, "register", "list_customers_failed", err.Error())
		return nil
	}
	return customers
}

// Register creates an active card with a zero balance.
func (s RegisterService) Register(ctx context.Context, rec form.Record) error {
	card := models.Card{
		ID:         utils.TrimOrEmpty(rec.String("id")),
		Type:       rec.String("type"),
		Status:     StatusActive,
		Balance:    0,
		IssueDate:  rec.String("issue_date"),
		CustomerID: rec.String(form.CustomerField),
	}
	if _, err := s.API.CreateCard(ctx, card); err != nil {
		logEvent(ctx, "register", "create_failed", "id="+card.ID+" err="+err.Error())
		return err
	}
	logEvent(ctx, "register", "create", "id="+card.ID+" customer_id="+card.CustomerID)
	return nil
}
