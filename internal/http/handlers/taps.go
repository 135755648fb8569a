package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/services"
)

const tapsPath = "/transaction-history"

// GET /transaction-history, ?edit=<id> opens the correction form.
func (h *Console) TapsPage(c *gin.Context) {
	f := h.Taps.NewForm()
	editID := c.Query("edit")
	if editID != "" {
		tap, err := h.Taps.Find(ctxOf(c), editID)
		if err != nil {
			redirectError(c, tapsPath, "Error fetching tap history")
			return
		}
		f.Open(services.TapRecord(tap))
	}
	h.renderTaps(c, http.StatusOK, f, editID)
}

func (h *Console) renderTaps(c *gin.Context, status int, f *form.Form, editID string) {
	list, err := h.Taps.List(ctxOf(c), bindListQuery(c))
	page := basePage(c, "Transaction History", tapsPath, gin.H{
		"List": list,
		"Form": formView(f, itemPath(tapsPath, editID), tapsPath),
	})
	if err != nil {
		page.Error = "Error fetching tap history"
	}
	renderPage(c, status, "transaction_history", page)
}

// POST /transaction-history/:id
func (h *Console) TapUpdate(c *gin.Context) {
	id := c.Param("id")
	tap, err := h.Taps.Find(ctxOf(c), id)
	if err != nil {
		redirectError(c, tapsPath, "Error updating tap record")
		return
	}
	f := h.Taps.NewForm()
	openPosted(c, f, services.TapRecord(tap))
	submit(c, f, tapsPath,
		outcome{"Tap record updated", "Error updating tap record"},
		func(rec form.Record) error { return h.Taps.Update(ctxOf(c), id, rec) },
		func() { h.renderTaps(c, http.StatusUnprocessableEntity, f, id) })
}
