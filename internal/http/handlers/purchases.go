package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/services"
)

const purchasesPath = "/purchases"

// GET /purchases, with ?new=1, ?edit=<id> or ?dispute=<id> opening a dialog.
func (h *Console) PurchasesPage(c *gin.Context) {
	f := h.Trips.NewForm(nil)
	var draft *services.DisputeDraft
	editID := c.Query("edit")
	switch {
	case editID != "":
		row, err := h.Trips.Get(ctxOf(c), editID)
		if err != nil {
			redirectError(c, purchasesPath, "Error fetching trips")
			return
		}
		if row.ReadOnly {
			redirectError(c, purchasesPath, "Error updating trip")
			return
		}
		f.Open(services.TripRecord(row.Trip))
	case c.Query("dispute") != "":
		row, err := h.Trips.Get(ctxOf(c), c.Query("dispute"))
		if err != nil || row.ReadOnly {
			redirectError(c, purchasesPath, "Error submitting dispute")
			return
		}
		d := services.NewDisputeDraft(row)
		draft = &d
	case c.Query("new") != "":
		f.Open(nil)
	}
	h.renderPurchases(c, http.StatusOK, f, editID, draft)
}

func (h *Console) renderPurchases(c *gin.Context, status int, f *form.Form, editID string, draft *services.DisputeDraft) {
	var adv services.TripFilters
	if err := c.ShouldBindQuery(&adv); err != nil {
		adv = services.TripFilters{}
	}
	list, err := h.Trips.List(ctxOf(c), bindListQuery(c), adv)
	f.SetOptions("card_id", list.Cards)
	action := purchasesPath
	if editID != "" {
		action = itemPath(purchasesPath, editID)
	}
	data := gin.H{
		"List":         list,
		"Form":         formView(f, action, purchasesPath),
		"TransitModes": services.TransitModes,
		"Adjustable":   services.AdjustableOptions,
		"Operators":    services.Operators,
		"Locations":    services.Locations,
		"DisputeTypes": services.DisputeTypes,
	}
	if draft != nil {
		data["Dispute"] = *draft
	}
	page := basePage(c, "Purchases", purchasesPath, data)
	if err != nil {
		page.Error = "Error fetching trips"
	}
	renderPage(c, status, "purchases", page)
}

// POST /purchases
func (h *Console) PurchaseCreate(c *gin.Context) {
	h.saveTrip(c, "", outcome{"Trip created", "Error creating trip"})
}

// POST /purchases/:id
func (h *Console) PurchaseUpdate(c *gin.Context) {
	h.saveTrip(c, c.Param("id"), outcome{"Trip updated", "Error updating trip"})
}

func (h *Console) saveTrip(c *gin.Context, id string, msgs outcome) {
	var base form.Record
	if id != "" {
		row, err := h.Trips.Get(ctxOf(c), id)
		if err != nil || row.ReadOnly {
			redirectError(c, purchasesPath, msgs.fail)
			return
		}
		base = services.TripRecord(row.Trip)
	}
	f := h.Trips.NewForm(nil)
	openPosted(c, f, base)
	submit(c, f, purchasesPath, msgs,
		func(rec form.Record) error { return h.Trips.Save(ctxOf(c), id, rec) },
		func() { h.renderPurchases(c, http.StatusUnprocessableEntity, f, id, nil) })
}

// POST /purchases/:id/delete
func (h *Console) PurchaseDelete(c *gin.Context) {
	if err := h.Trips.Delete(ctxOf(c), c.Param("id")); err != nil {
		redirectError(c, purchasesPath, "Error deleting trip")
		return
	}
	redirectNotice(c, purchasesPath, "Trip deleted")
}

// POST /purchases/:id/dispute files a fare dispute from the trip dialog.
func (h *Console) PurchaseDispute(c *gin.Context) {
	var draft services.DisputeDraft
	if err := c.ShouldBind(&draft); err != nil {
		redirectError(c, purchasesPath, "Error submitting dispute")
		return
	}
	if err := h.Trips.SubmitDispute(ctxOf(c), c.Param("id"), draft); err != nil {
		redirectError(c, purchasesPath, "Error submitting dispute")
		return
	}
	redirectNotice(c, purchasesPath, "Fare dispute submitted")
}

// GET /purchases/:id is one product's purchase history.
func (h *Console) PurchaseHistory(c *gin.Context) {
	var q services.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = services.HistoryQuery{}
	}
	hist, err := h.Trips.History(ctxOf(c), c.Param("id"), q)
	page := basePage(c, "Purchase History", purchasesPath, gin.H{
		"History": hist,
		"Ranges":  services.HistoryRanges,
		"Modes":   services.HistoryModes,
	})
	if err != nil {
		page.Error = "Error fetching trips"
	}
	renderPage(c, http.StatusOK, "purchase_history", page)
}
