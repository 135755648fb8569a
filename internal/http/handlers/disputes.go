package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/services"
)

const disputesPath = "/fare-disputes"

// disputeDialog is the add or edit dialog of the fare disputes page.
type disputeDialog struct {
	Title  string
	Action string
	Create bool
	Input  services.DisputeInput
}

// GET /fare-disputes
//
// ?new=1 opens the add dialog (?card_id narrows its trips), ?edit=<id> the
// edit dialog and ?confirm_delete=<id> the delete confirmation.
func (h *Console) DisputesPage(c *gin.Context) {
	var dialog *disputeDialog
	switch {
	case c.Query("edit") != "":
		id, err := strconv.Atoi(c.Query("edit"))
		if err != nil {
			redirectError(c, disputesPath, "Error updating dispute")
			return
		}
		d, err := h.Disputes.Find(ctxOf(c), id)
		if err != nil {
			redirectError(c, disputesPath, "Error updating dispute")
			return
		}
		dialog = &disputeDialog{Title: "Edit Dispute", Action: itemPath(disputesPath, strconv.Itoa(id)), Input: services.DisputeInputFrom(d)}
	case c.Query("new") != "":
		dialog = &disputeDialog{Title: "Add Dispute", Action: disputesPath, Create: true, Input: services.DisputeInput{CardID: c.Query("card_id")}}
	}
	var confirm string
	if id, err := strconv.Atoi(c.Query("confirm_delete")); err == nil {
		confirm = strconv.Itoa(id)
	}
	h.renderDisputes(c, http.StatusOK, dialog, confirm)
}

func (h *Console) renderDisputes(c *gin.Context, status int, dialog *disputeDialog, confirm string) {
	cardID := ""
	if dialog != nil && dialog.Create {
		cardID = dialog.Input.CardID
	}
	list, err := h.Disputes.List(ctxOf(c), bindListQuery(c), cardID)
	data := gin.H{
		"List":         list,
		"DisputeTypes": services.DisputeTypes,
		"ConfirmText":  services.DeleteConfirmText,
	}
	if dialog != nil {
		data["Dialog"] = *dialog
	}
	if confirm != "" {
		data["ConfirmDelete"] = confirm
	}
	page := basePage(c, "Fare Disputes", disputesPath, data)
	if err != nil {
		page.Error = "Error fetching disputes"
	}
	renderPage(c, status, "fare_disputes", page)
}

func bindDispute(c *gin.Context) services.DisputeInput {
	var in services.DisputeInput
	if err := c.ShouldBind(&in); err != nil {
		return services.DisputeInput{}
	}
	return in
}

// POST /fare-disputes
func (h *Console) DisputeCreate(c *gin.Context) {
	in := bindDispute(c)
	if err := h.Disputes.Add(ctxOf(c), &in); err != nil {
		if len(in.Errors) > 0 {
			h.renderDisputes(c, http.StatusUnprocessableEntity, &disputeDialog{Title: "Add Dispute", Action: disputesPath, Create: true, Input: in}, "")
			return
		}
		redirectError(c, disputesPath, "Error adding dispute")
		return
	}
	redirectNotice(c, disputesPath, "Dispute added")
}

// POST /fare-disputes/:id
func (h *Console) DisputeUpdate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectError(c, disputesPath, "Error updating dispute")
		return
	}
	in := bindDispute(c)
	if err := h.Disputes.Update(ctxOf(c), id, &in); err != nil {
		if len(in.Errors) > 0 {
			h.renderDisputes(c, http.StatusUnprocessableEntity, &disputeDialog{Title: "Edit Dispute", Action: itemPath(disputesPath, c.Param("id")), Input: in}, "")
			return
		}
		redirectError(c, disputesPath, "Error updating dispute")
		return
	}
	redirectNotice(c, disputesPath, "Dispute updated")
}

// POST /fare-disputes/:id/delete, reached from the confirmation dialog.
func (h *Console) DisputeDelete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		redirectError(c, disputesPath, "Error deleting dispute")
		return
	}
	if err := h.Disputes.Delete(ctxOf(c), id); err != nil {
		redirectError(c, disputesPath, "Error deleting dispute")
		return
	}
	redirectNotice(c, disputesPath, "Dispute deleted")
}
