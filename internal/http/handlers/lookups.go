package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/lookups/cards?customer_id=<id> feeds the dependent card select.
func (h *Console) LookupCards(c *gin.Context) {
	customerID := strings.TrimSpace(c.Query("customer_id"))
	if customerID == "" {
		respondError(c, http.StatusBadRequest, "missing_customer_id", "customer_id is required", nil)
		return
	}
	ids, err := h.Cases.CardsFor(ctxOf(c), customerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ids})
}

// GET /api/lookups/trips?card_id=<id> feeds the dispute dialog's trip select.
func (h *Console) LookupTrips(c *gin.Context) {
	cardID := strings.TrimSpace(c.Query("card_id"))
	if cardID == "" {
		respondError(c, http.StatusBadRequest, "missing_card_id", "card_id is required", nil)
		return
	}
	ids, err := h.Disputes.TripsFor(ctxOf(c), cardID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ids})
}
