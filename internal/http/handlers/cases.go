package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/services"
)

const casesPath = "/service-request"

// GET /service-request
func (h *Console) CasesPage(c *gin.Context) {
	list, listErr := h.Cases.List(ctxOf(c), bindListQuery(c))
	f := h.Cases.NewForm(list.Customers, list.CardsByCustomer)
	editID := c.Query("edit")
	var hidden map[string]string
	switch {
	case editID != "":
		cs, err := h.Cases.API.GetCase(ctxOf(c), editID)
		if err != nil {
			redirectError(c, casesPath, "Error fetching cases")
			return
		}
		services.OpenCase(f, &cs, list.CardsByCustomer)
		hidden = map[string]string{"last_updated": cs.LastUpdated}
	case c.Query("new") != "":
		services.OpenCase(f, nil, list.CardsByCustomer)
	}
	h.renderCases(c, http.StatusOK, list, listErr, f, editID, hidden)
}

func (h *Console) renderCases(c *gin.Context, status int, list services.CasePage, listErr error, f *form.Form, editID string, hidden map[string]string) {
	action := casesPath
	if editID != "" {
		action = itemPath(casesPath, editID)
	}
	view := formView(f, action, casesPath)
	view.Hidden = hidden
	page := basePage(c, "Service Request", casesPath, gin.H{"List": list, "Form": view})
	if listErr != nil {
		page.Error = "Error fetching cases"
	}
	renderPage(c, status, "service_request", page)
}

// POST /service-request
func (h *Console) CaseCreate(c *gin.Context) {
	h.saveCase(c, "", outcome{"Case created successfully", "Error creating case"})
}

// POST /service-request/:id
func (h *Console) CaseUpdate(c *gin.Context) {
	h.saveCase(c, c.Param("id"), outcome{"Case updated successfully", "Error updating case"})
}

// saveCase builds the form from the fetched lookups so the posted customer
// narrows the card select before validation.
func (h *Console) saveCase(c *gin.Context, id string, msgs outcome) {
	list, listErr := h.Cases.List(ctxOf(c), services.Query{})
	var base form.Record
	if id != "" {
		current, err := h.Cases.API.GetCase(ctxOf(c), id)
		if err != nil {
			redirectError(c, casesPath, msgs.fail)
			return
		}
		base = services.CaseRecord(current)
	}
	f := h.Cases.NewForm(list.Customers, list.CardsByCustomer)
	openPosted(c, f, base)
	var hidden map[string]string
	if id != "" {
		hidden = map[string]string{"last_updated": c.PostForm("last_updated")}
	}
	submit(c, f, casesPath, msgs,
		func(rec form.Record) error {
			if v, ok := c.GetPostForm("last_updated"); ok && id != "" {
				rec["last_updated"] = v
			}
			return h.Cases.Save(ctxOf(c), id, rec)
		},
		func() { h.renderCases(c, http.StatusUnprocessableEntity, list, listErr, f, id, hidden) })
}

// POST /service-request/:id/delete
func (h *Console) CaseDelete(c *gin.Context) {
	if err := h.Cases.Delete(ctxOf(c), c.Param("id")); err != nil {
		redirectError(c, casesPath, "Error deleting case")
		return
	}
	redirectNotice(c, casesPath, "Case deleted successfully")
}

