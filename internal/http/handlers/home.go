package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuickCard struct {
	Path        string
	Title       string
	Description string
}

var quickCards = []QuickCard{
	{"/product-search", "Product Search", "Search and view detailed product information"},
	{"/customers", "Customers", "View and update customer information"},
	{"/purchases", "Purchases", "Track purchase history and manage incomplete purchases"},
	{"/service-request", "Service Request", "Handle customer service requests and support"},
	{"/transaction-history", "Transaction History", "View detailed transaction history and interactions"},
	{"/register-product", "Register Product", "Register a new product"},
}

// GET /
func (h *Console) Home(c *gin.Context) {
	renderPage(c, http.StatusOK, "home", basePage(c, "Home", "/", gin.H{"Cards": quickCards}))
}
