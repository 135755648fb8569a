package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/domain/models"
	"transitcrm/internal/form"
)

const registerPath = "/register-product"

// GET /register-product
func (h *Console) RegisterPage(c *gin.Context) {
	customers := h.Register.Customers(ctxOf(c))
	f := h.Register.NewForm(customers)
	f.Open(nil)
	h.renderRegister(c, http.StatusOK, f, customers)
}

func (h *Console) renderRegister(c *gin.Context, status int, f *form.Form, customers []models.Customer) {
	page := basePage(c, "Register Product", registerPath, gin.H{
		"Form":         formView(f, registerPath, productsPath),
		"HasCustomers": len(customers) > 0,
	})
	renderPage(c, status, "register_product", page)
}

// POST /register-product creates the card and returns to the products list.
func (h *Console) RegisterSubmit(c *gin.Context) {
	customers := h.Register.Customers(ctxOf(c))
	f := h.Register.NewForm(customers)
	openPosted(c, f, nil)
	err := f.Submit(func(rec form.Record) error { return h.Register.Register(ctxOf(c), rec) })
	switch {
	case err == nil:
		redirectNotice(c, productsPath, "Product registered!")
	case isFormError(err):
		h.renderRegister(c, http.StatusUnprocessableEntity, f, customers)
	default:
		redirectError(c, registerPath, "Product registration failed")
	}
}
