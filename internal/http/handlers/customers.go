package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
	"transitcrm/internal/services"
)

const customersPath = "/customers"

// GET /customers, with ?new=1 or ?edit=<id> opening the form.
func (h *Console) CustomersPage(c *gin.Context) {
	f := h.Customers.NewForm()
	editID := c.Query("edit")
	switch {
	case editID != "":
		cust, err := h.Customers.Get(ctxOf(c), editID)
		if err != nil {
			redirectError(c, customersPath, "Error fetching customers")
			return
		}
		f.Open(services.CustomerRecord(cust))
	case c.Query("new") != "":
		f.Open(nil)
	}
	h.renderCustomers(c, http.StatusOK, f, editID)
}

func (h *Console) renderCustomers(c *gin.Context, status int, f *form.Form, editID string) {
	list, err := h.Customers.List(ctxOf(c), bindListQuery(c))
	action := customersPath
	if editID != "" {
		action = itemPath(customersPath, editID)
	}
	page := basePage(c, "Customers", customersPath, gin.H{
		"List": list,
		"Form": formView(f, action, customersPath),
	})
	if err != nil {
		page.Error = "Error fetching customers"
	}
	renderPage(c, status, "customers", page)
}

// POST /customers
func (h *Console) CustomerCreate(c *gin.Context) {
	f := h.Customers.NewForm()
	openPosted(c, f, nil)
	submit(c, f, customersPath,
		outcome{"Customer created successfully", "Error creating customer"},
		func(rec form.Record) error { return h.Customers.Save(ctxOf(c), "", rec) },
		func() { h.renderCustomers(c, http.StatusUnprocessableEntity, f, "") })
}

// POST /customers/:id
func (h *Console) CustomerUpdate(c *gin.Context) {
	id := c.Param("id")
	cust, err := h.Customers.Get(ctxOf(c), id)
	if err != nil {
		redirectError(c, customersPath, "Error updating customer")
		return
	}
	f := h.Customers.NewForm()
	openPosted(c, f, services.CustomerRecord(cust))
	submit(c, f, customersPath,
		outcome{"Customer updated successfully", "Error updating customer"},
		func(rec form.Record) error { return h.Customers.Save(ctxOf(c), id, rec) },
		func() { h.renderCustomers(c, http.StatusUnprocessableEntity, f, id) })
}

// POST /customers/:id/delete
func (h *Console) CustomerDelete(c *gin.Context) {
	if err := h.Customers.Delete(ctxOf(c), c.Param("id")); err != nil {
		redirectError(c, customersPath, "Error deleting customer")
		return
	}
	redirectNotice(c, customersPath, "Customer deleted successfully")
}

// GET /customers/:id shows the personal information form.
func (h *Console) CustomerDetail(c *gin.Context) {
	id := c.Param("id")
	cust, err := h.Customers.Get(ctxOf(c), id)
	if err != nil {
		redirectError(c, customersPath, "Error fetching customers")
		return
	}
	f := h.Customers.InfoForm()
	f.Open(services.CustomerRecord(cust))
	h.renderCustomerDetail(c, http.StatusOK, cust, f)
}

func (h *Console) renderCustomerDetail(c *gin.Context, status int, cust models.Customer, f *form.Form) {
	id := c.Param("id")
	page := basePage(c, "Customer", customersPath, gin.H{
		"Customer": cust,
		"Form":     formView(f, itemPath(customersPath, id)+"/info", itemPath(customersPath, id)),
	})
	renderPage(c, status, "customer_detail", page)
}

// POST /customers/:id/info
func (h *Console) CustomerInfoUpdate(c *gin.Context) {
	id := c.Param("id")
	back := itemPath(customersPath, id)
	f := h.Customers.InfoForm()
	// UpdateInfo merges the three fields onto the stored customer
	openPosted(c, f, form.Record{})
	submit(c, f, back,
		outcome{"Customer information updated successfully", "Error updating customer"},
		func(rec form.Record) error { return h.Customers.UpdateInfo(ctxOf(c), id, rec) },
		func() {
			cust, err := h.Customers.Get(ctxOf(c), id)
			if err != nil {
				redirectError(c, customersPath, "Error fetching customers")
				return
			}
			h.renderCustomerDetail(c, http.StatusUnprocessableEntity, cust, f)
		})
}
