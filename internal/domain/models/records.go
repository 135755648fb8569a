package models

import "time"

// Unknown is shown for values the API omitted.
const Unknown = "Unknown"

type Customer struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Notifications string `json:"notifications"`
	JoinDate      string `json:"join_date,omitempty"`
}

func (c *Customer) Normalize() {
	if c.JoinDate == "" {
		c.JoinDate = nowISO()
	}
}

type Card struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Balance    Amount `json:"balance"`
	IssueDate  string `json:"issue_date,omitempty"`
	CustomerID string `json:"customer_id"`
}

func (c *Card) Normalize() {
	if c.Status == "" {
		c.Status = Unknown
	}
	if c.IssueDate == "" {
		c.IssueDate = nowISO()
	}
}

type Trip struct {
	ID            string `json:"id,omitempty"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EntryLocation string `json:"entry_location"`
	ExitLocation  string `json:"exit_location"`
	Fare          Amount `json:"fare"`
	Route         string `json:"route"`
	Operator      string `json:"operator"`
	TransitMode   string `json:"transit_mode"`
	Adjustable    string `json:"adjustable"`
	CardID        string `json:"card_id"`
}

// Normalize only fills the start time; an empty end time or exit location
// marks the trip as incomplete and must survive.
func (t *Trip) Normalize() {
	if t.StartTime == "" {
		t.StartTime = nowISO()
	}
}

// Incomplete reports a trip that has no recorded exit.
func (t Trip) Incomplete() bool {
	return t.EndTime == "" || t.ExitLocation == ""
}

type Case struct {
	ID            string `json:"id,omitempty"`
	CustomerID    string `json:"customer_id"`
	CardID        string `json:"card_id"`
	CaseStatus    string `json:"case_status"`
	Priority      string `json:"priority"`
	Category      string `json:"category"`
	AssignedAgent string `json:"assigned_agent"`
	Notes         string `json:"notes"`
	CreatedDate   string `json:"created_date,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
}

func (c *Case) Normalize() {
	if c.CaseStatus == "" {
		c.CaseStatus = Unknown
	}
	if c.CreatedDate == "" {
		c.CreatedDate = nowISO()
	}
	if c.LastUpdated == "" {
		c.LastUpdated = c.CreatedDate
	}
}

type TapHistory struct {
	ID          string `json:"id,omitempty"`
	TapTime     string `json:"tap_time"`
	Location    string `json:"location"`
	DeviceID    string `json:"device_id"`
	TransitMode string `json:"transit_mode"`
	Direction   string `json:"direction"`
	CustomerID  string `json:"customer_id"`
	Result      string `json:"result"`
}

func (t *TapHistory) Normalize() {
	if t.Result == "" {
		t.Result = Unknown
	}
	if t.TapTime == "" {
		t.TapTime = nowISO()
	}
}

type FareDispute struct {
	ID          int    `json:"id,omitempty"`
	DisputeDate string `json:"dispute_date"`
	CardID      string `json:"card_id"`
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
	TripID      string `json:"trip_id"`
	DisputeType string `json:"dispute_type"`
}

func (d *FareDispute) Normalize() {
	if d.DisputeDate == "" {
		d.DisputeDate = nowISO()
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserName    string `json:"user_name"`
}

func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}
