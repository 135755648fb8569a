package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/form"
	"transitcrm/internal/services"
)

const productsPath = "/products"

// GET /products
func (h *Console) ProductsPage(c *gin.Context) {
	f := h.Cards.NewForm(nil)
	editID := c.Query("edit")
	switch {
	case editID != "":
		card, err := h.Cards.API.GetCard(ctxOf(c), editID)
		if err != nil {
			redirectError(c, productsPath, "Error fetching products")
			return
		}
		f.Open(services.CardRecord(card))
	case c.Query("new") != "":
		f.Open(nil)
	}
	h.renderProducts(c, http.StatusOK, f, editID)
}

// renderProducts fills the customer select from the fetched list.
func (h *Console) renderProducts(c *gin.Context, status int, f *form.Form, editID string) {
	list, err := h.Cards.List(ctxOf(c), bindListQuery(c))
	f.SetOptions(form.CustomerField, list.Customers)
	action := productsPath
	if editID != "" {
		action = itemPath(productsPath, editID)
	}
	page := basePage(c, "Products", productsPath, gin.H{
		"List": list,
		"Form": formView(f, action, productsPath),
	})
	if err != nil {
		page.Error = "Error fetching products"
	}
	renderPage(c, status, "products", page)
}

// POST /products
func (h *Console) ProductCreate(c *gin.Context) {
	h.saveProduct(c, "", outcome{"Product created successfully", "Error creating product"})
}

// POST /products/:id
func (h *Console) ProductUpdate(c *gin.Context) {
	h.saveProduct(c, c.Param("id"), outcome{"Product updated successfully", "Error updating product"})
}

func (h *Console) saveProduct(c *gin.Context, id string, msgs outcome) {
	var base form.Record
	if id != "" {
		card, err := h.Cards.API.GetCard(ctxOf(c), id)
		if err != nil {
			redirectError(c, productsPath, msgs.fail)
			return
		}
		base = services.CardRecord(card)
	}
	f := h.Cards.NewForm(nil)
	openPosted(c, f, base)
	submit(c, f, productsPath, msgs,
		func(rec form.Record) error { return h.Cards.Save(ctxOf(c), id, rec) },
		func() { h.renderProducts(c, http.StatusUnprocessableEntity, f, id) })
}

// POST /products/:id/delete
func (h *Console) ProductDelete(c *gin.Context) {
	if err := h.Cards.Delete(ctxOf(c), c.Param("id")); err != nil {
		redirectError(c, productsPath, "Error deleting product")
		return
	}
	redirectNotice(c, productsPath, "Product deleted successfully")
}

// GET /products/:id
func (h *Console) ProductDetails(c *gin.Context) {
	d, err := h.Search.Details(ctxOf(c), c.Param("id"))
	page := basePage(c, "Product "+c.Param("id"), productsPath, gin.H{
		"Details": d,
		"Message": services.SearchMessage(err),
	})
	status := http.StatusOK
	if err != nil {
		status = http.StatusNotFound
		if services.SearchMessage(err) == services.MsgFetchFailed {
			status = http.StatusBadGateway
		}
	}
	renderPage(c, status, "product_details", page)
}

// POST /products/:id/block toggles between Blocked and Active.
func (h *Console) ProductToggleBlock(c *gin.Context) {
	id := c.Param("id")
	back := itemPath(productsPath, id)
	card, err := h.Cards.ToggleBlock(ctxOf(c), id)
	if err != nil {
		redirectError(c, back, "Error updating product")
		return
	}
	if strings.EqualFold(card.Status, services.StatusBlocked) {
		redirectNotice(c, back, "Card blocked")
		return
	}
	redirectNotice(c, back, "Card unblocked")
}

// GET /product-search?q=<id>
func (h *Console) ProductSearch(c *gin.Context) {
	query, searched := c.GetQuery("q")
	data := gin.H{"Query": query}
	if searched {
		d, err := h.Search.Search(ctxOf(c), query)
		if err != nil {
			data["Message"] = services.SearchMessage(err)
		} else {
			data["Details"] = d
		}
	}
	renderPage(c, http.StatusOK, "product_search", basePage(c, "Product Search", "/product-search", data))
}
