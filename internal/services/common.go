package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"transitcrm/internal/apiclient"
	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/listing"
	"transitcrm/internal/utils"
)

// Query is the search state of a list page.
type Query struct {
	Filter string `form:"filter"`
	Q      string `form:"q"`
}

type FilterView struct {
	Options     []listing.SelectOption
	Selected    string
	Query       string
	Placeholder string
	Total       int
	Shown       int
}

func filterView[T any](f listing.Filter[T], q Query, total, shown int) FilterView {
	selected := q.Filter
	if selected == "" {
		selected = listing.None
	}
	return FilterView{
		Options:     f.Options(selected),
		Selected:    selected,
		Query:       q.Q,
		Placeholder: f.Placeholder(selected),
		Total:       total,
		Shown:       shown,
	}
}

func col[T any](id, label string, value func(T) string) listing.Column[T] {
	return listing.Column[T]{ID: id, Label: label, Value: value}
}

func logEvent(ctx context.Context, module, action, message string) {
	utils.LogEvent(apiclient.RequestIDFrom(ctx), module, action, message)
}

func amountText(a models.Amount) string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}

func parseAmount(v any) models.Amount {
	switch x := v.(type) {
	case float64:
		return models.Amount(x)
	case string:
		n, err := utils.ParseAmount(x)
		if err != nil {
			return 0
		}
		return models.Amount(n)
	default:
		return 0
	}
}

func customerChoices(customers []models.Customer) []form.Choice {
	out := make([]form.Choice, 0, len(customers))
	for _, c := range customers {
		out = append(out, form.Choice{Value: c.ID, Label: c.ID})
	}
	return out
}

func cardChoices(cards []models.Card) []form.Choice {
	out := make([]form.Choice, 0, len(cards))
	for _, c := range cards {
		out = append(out, form.Choice{Value: c.ID, Label: c.ID})
	}
	return out
}

func customerName(byCustomer map[string]models.Customer, id string) string {
	return listing.Lookup(byCustomer, id, func(c models.Customer) string { return c.Name }, models.Unknown)
}

// newestFirst sorts rows by a timestamp, newest first; unparseable times sink.
func newestFirst[T any](rows []T, ts func(T) string) {
	key := func(v T) time.Time {
		t, _ := utils.ParseTimestamp(ts(v))
		return t
	}
	sort.SliceStable(rows, func(i, j int) bool { return key(rows[i]).After(key(rows[j])) })
}

func top[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StatusColor is the badge colour of a card status.
func StatusColor(status string) string {
	switch lower(status) {
	case "active":
		return "green"
	case "blocked":
		return "red"
	case "lost":
		return "orange"
	case "suspended":
		return "yellow"
	default:
		return "gray"
	}
}

func TypeColor(cardType string) string {
	switch lower(cardType) {
	case "student":
		return "blue"
	case "senior":
		return "purple"
	case "adult":
		return "orange"
	default:
		return "gray"
	}
}

func CaseStatusColor(status string) string {
	switch lower(status) {
	case "open":
		return "blue"
	case "in progress":
		return "yellow"
	case "escalated":
		return "red"
	case "on hold":
		return "orange"
	case "resolved":
		return "green"
	case "reopened":
		return "purple"
	default:
		return "gray"
	}
}

func PriorityColor(priority string) string {
	switch lower(priority) {
	case "medium":
		return "blue"
	case "high":
		return "yellow"
	case "critical":
		return "orange"
	case "urgent":
		return "red"
	default:
		return "gray"
	}
}
