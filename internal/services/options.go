package services

var (
	CardTypes    = []string{"Adult", "Student", "Senior", "Child", "Corporate", "Tourist", "Special", "VIP"}
	CardStatuses = []string{"Active", "Blocked", "Expired", "Lost", "Suspended"}

	Locations = []string{
		"Downtown", "Central Station", "Shopping Mall", "University", "Airport Terminal",
		"Business District", "Sports Complex", "Entertainment Zone", "Beach Station",
		"Hospital Hub", "Tech Park", "Museum District", "Zoo Station", "Park & Ride",
		"Convention Center", "Stadium", "Financial District", "Tourist Center",
	}
	TransitModes      = []string{"SubWay", "Bus", "Rail"}
	Operators         = []string{"Metro Transit", "City Bus", "Regional Rail"}
	AdjustableOptions = []string{"Yes", "No"}

	DisputeTypes = []string{
		"Duplicate Fare Charged",
		"Incorrect Fare Applied",
		"Failed Tap Entry",
		"Tap Mismatch - Incomplete Trip",
		"Wrong Fare Zone Applied",
	}

	CaseCategories = []string{"Card issue", "Trip Dispute", "Eligibility verification", "Refund Request"}
	CaseStatuses   = []string{"Escalated", "Open", "In progress", "Closed"}
	CasePriorities = []string{"High", "Low", "Medium", "Critical"}
	Agents         = []string{
		"John Smith", "Sarah Johnson", "Mike Wilson", "Lisa Anderson", "David Brown",
		"Emma Davis", "Alex Turner", "Maria Garcia", "James Lee", "Rachel White",
	}

	NotificationOptions = []string{"SMS Enabled", "Email Enabled"}
	RegisterTypes       = []string{"Account Based Card", "Bank Card", "Closed Loop Card"}
)
