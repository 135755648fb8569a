package services

import (
	"context"
	"strings"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

var customerFilter = listing.NewFilter(
	col("id", "Customer ID", func(c models.Customer) string { return c.ID }),
	col("name", "Name", func(c models.Customer) string { return c.Name }),
	col("email", "Email", func(c models.Customer) string { return c.Email }),
	col("phone", "Phone", func(c models.Customer) string { return c.Phone }),
	col("notifications", "Notifications", func(c models.Customer) string { return c.Notifications }),
	col("join_date", "Join Date", func(c models.Customer) string { return c.JoinDate }),
)

// CustomerService backs the customers page and the customer detail page.
type CustomerService struct {
	API apiclient.API
}

type CustomerPage struct {
	Rows   []models.Customer
	Filter FilterView
}

func (s CustomerService) NewForm() *form.Form {
	return form.New("Customer", []form.Field{
		form.Text("name", "Name"),
		form.EmailField("Email"),
		form.Text("phone", "Phone"),
		form.Select("notifications", "Notifications", form.Choices(NotificationOptions...)),
	})
}

// InfoForm is the personal information form of the customer detail page.
func (s CustomerService) InfoForm() *form.Form {
	return form.New("Update Personal Information", []form.Field{
		form.Text("name", "Full Name"),
		form.EmailField("Email"),
		form.Text("phone", "Phone"),
	})
}

func (s CustomerService) List(ctx context.Context, q Query) (CustomerPage, error) {
	customers, err := s.API.ListCustomers(ctx)
	if err != nil {
		logEvent(ctx, "customers", "list_failed", err.Error())
		return CustomerPage{Filter: filterView(customerFilter, q, 0, 0)}, err
	}
	rows := customerFilter.Apply(customers, q.Filter, q.Q)
	return CustomerPage{Rows: rows, Filter: filterView(customerFilter, q, len(customers), len(rows))}, nil
}

func (s CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	return s.API.GetCustomer(ctx, strings.TrimSpace(id))
}

func CustomerRecord(c models.Customer) form.Record {
	return form.Record{
		"id":            c.ID,
		"name":          c.Name,
		"email":         c.Email,
		"phone":         c.Phone,
		"notifications": c.Notifications,
		"join_date":     c.JoinDate,
	}
}

func customerFromRecord(rec form.Record) models.Customer {
	return models.Customer{
		ID:            rec.String("id"),
		Name:          utils.TrimOrEmpty(rec.String("name")),
		Email:         utils.TrimOrEmpty(rec.String("email")),
		Phone:         utils.TrimOrEmpty(rec.String("phone")),
		Notifications: rec.String("notifications"),
		JoinDate:      rec.String("join_date"),
	}
}

// Save creates the customer when id is empty and updates it otherwise.
func (s CustomerService) Save(ctx context.Context, id string, rec form.Record) error {
	c := customerFromRecord(rec)
	if id == "" {
		c.ID = ""
		created, err := s.API.CreateCustomer(ctx, c)
		if err != nil {
			logEvent(ctx, "customers", "create_failed", err.Error())
			return err
		}
		logEvent(ctx, "customers", "create", "id="+created.ID)
		return nil
	}
	c.ID = id
	if _, err := s.API.UpdateCustomer(ctx, id, c); err != nil {
		logEvent(ctx, "customers", "update_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "customers", "update", "id="+id)
	return nil
}

// UpdateInfo changes name, email and phone, keeping the other fields.
func (s CustomerService) UpdateInfo(ctx context.Context, id string, rec form.Record) error {
	current, err := s.API.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	current.Name = utils.TrimOrEmpty(rec.String("name"))
	current.Email = utils.TrimOrEmpty(rec.String("email"))
	current.Phone = utils.TrimOrEmpty(rec.String("phone"))
	if _, err := s.API.UpdateCustomer(ctx, id, current); err != nil {
		logEvent(ctx, "customers", "update_info_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "customers", "update_info", "id="+id)
	return nil
}

func (s CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.API.DeleteCustomer(ctx, id); err != nil {
		logEvent(ctx, "customers", "delete_failed", "id="+id+" err="+err.Error())
		return err
	}
	logEvent(ctx, "customers", "delete", "id="+id)
	return nil
}
