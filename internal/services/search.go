package services

import (
	"context"
	"errors"
	"strings"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

const (
	MsgEnterProduct     = "Please enter a product number"
	MsgProductNotFound  = "Product not found"
	MsgCustomerNotFound = "Customer information not found"
	MsgFetchFailed      = "Failed to fetch card details"
)

// SearchError carries the message shown on the search page.
type SearchError struct {
	Msg string
	Err error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *SearchError) Unwrap() error { return e.Err }

// CardDetails is everything the search and product pages show about one card.
type CardDetails struct {
	Card     CardRow
	Customer models.Customer
	Trips    []TripRow
	Cases    []CaseRow
	Taps     []models.TapHistory
}

func (d CardDetails) Blocked() bool {
	return strings.EqualFold(d.Card.Status, StatusBlocked)
}

type SearchService struct {
	API apiclient.API
}

// Search finds a card by its exact product number.
func (s SearchService) Search(ctx context.Context, query string) (CardDetails, error) {
	id := strings.TrimSpace(query)
	if id == "" {
		return CardDetails{}, &SearchError{Msg: MsgEnterProduct}
	}
	logEvent(ctx, "search", "product", "id="+id)

	cards, err := s.API.ListCards(ctx)
	if err != nil {
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	for _, c := range cards {
		if c.ID == id {
			return s.details(ctx, c)
		}
	}
	return CardDetails{}, &SearchError{Msg: MsgProductNotFound}
}

// Details loads the same aggregate as Search through a direct card read.
func (s SearchService) Details(ctx context.Context, id string) (CardDetails, error) {
	card, err := s.API.GetCard(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return CardDetails{}, &SearchError{Msg: MsgProductNotFound, Err: err}
		}
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	return s.details(ctx, card)
}

func (s SearchService) details(ctx context.Context, card models.Card) (CardDetails, error) {
	customers, err := s.API.ListCustomers(ctx)
	if err != nil {
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	byCustomer := listing.Index(customers, func(c models.Customer) string { return c.ID })
	customer, ok := byCustomer[card.CustomerID]
	if !ok {
		return CardDetails{}, &SearchError{Msg: MsgCustomerNotFound}
	}

	trips, err := s.API.ListTrips(ctx)
	if err != nil {
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	var cardTrips []models.Trip
	for _, t := range trips {
		if t.CardID == card.ID {
			cardTrips = append(cardTrips, t)
		}
	}
	newestFirst(cardTrips, func(t models.Trip) string { return t.StartTime })

	cases, err := s.API.ListCases(ctx)
	if err != nil {
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	var customerCases []CaseRow
	for _, c := range cases {
		if c.CustomerID == card.CustomerID {
			customerCases = append(customerCases, CaseRow{Case: c, CustomerName: customer.Name})
		}
	}
	newestFirst(customerCases, func(c CaseRow) string { return c.CreatedDate })

	taps, err := s.API.ListTapHistoryByCustomer(ctx, card.CustomerID)
	if err != nil {
		return CardDetails{}, &SearchError{Msg: MsgFetchFailed, Err: err}
	}
	newestFirst(taps, func(t models.TapHistory) string { return t.TapTime })

	return CardDetails{
		Card:     CardRow{Card: card, CustomerName: utils.FirstNonEmpty(customer.Name, models.Unknown)},
		Customer: customer,
		Trips:    tripRows(top(cardTrips, 5)),
		Cases:    top(customerCases, 3),
		Taps:     top(taps, 5),
	}, nil
}

// SearchMessage returns the page message for err, or "" when err is nil.
func SearchMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *SearchError
	if errors.As(err, &se) {
		return se.Msg
	}
	return MsgFetchFailed
}
