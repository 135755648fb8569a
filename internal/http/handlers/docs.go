package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/services"
)

// GET /products/:id/statement.pdf
func (h *Console) ProductStatement(c *gin.Context) {
	id := c.Param("id")
	pdfBytes, filename, err := h.Statements.GenerateStatement(ctxOf(c), id)
	if err != nil {
		logEvent(c, "docs", "statement_failed", "card_id="+id+" err="+err.Error())
		redirectError(c, itemPath(productsPath, id), services.SearchMessage(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
