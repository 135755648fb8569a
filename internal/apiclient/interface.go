package apiclient

import (
	"context"

	"transitcrm/internal/domain/models"
)

// API is the remote CRM surface used by the console services.
type API interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, c models.Customer) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListCards(ctx context.Context) ([]models.Card, error)
	GetCard(ctx context.Context, id string) (models.Card, error)
	CreateCard(ctx context.Context, c models.Card) (models.Card, error)
	UpdateCard(ctx context.Context, id string, c models.Card) (models.Card, error)
	DeleteCard(ctx context.Context, id string) error

	ListTrips(ctx context.Context) ([]models.Trip, error)
	GetTrip(ctx context.Context, id string) (models.Trip, error)
	CreateTrip(ctx context.Context, t models.Trip) (models.Trip, error)
	UpdateTrip(ctx context.Context, id string, t models.Trip) (models.Trip, error)
	DeleteTrip(ctx context.Context, id string) error

	ListCases(ctx context.Context) ([]models.Case, error)
	GetCase(ctx context.Context, id string) (models.Case, error)
	CreateCase(ctx context.Context, c models.Case) (models.Case, error)
	UpdateCase(ctx context.Context, id string, c models.Case) (models.Case, error)
	DeleteCase(ctx context.Context, id string) error

	ListTapHistory(ctx context.Context) ([]models.TapHistory, error)
	ListTapHistoryByCustomer(ctx context.Context, customerID string) ([]models.TapHistory, error)
	UpdateTapHistory(ctx context.Context, id string, t models.TapHistory) (models.TapHistory, error)

	ListFareDisputes(ctx context.Context) ([]models.FareDispute, error)
	CreateFareDispute(ctx context.Context, d models.FareDispute) (models.FareDispute, error)
	UpdateFareDispute(ctx context.Context, id int, d models.FareDispute) (models.FareDispute, error)
	DeleteFareDispute(ctx context.Context, id int) error
}
