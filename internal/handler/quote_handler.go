package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/limo-transfers/service-quote/internal/application"
	"github.com/limo-transfers/service-quote/internal/platform/response"
)

// QuoteHandler handles HTTP requests for price quotes.
type QuoteHandler struct {
	resolver *application.QuoteResolver
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(resolver *application.QuoteResolver) *QuoteHandler {
	return &QuoteHandler{resolver: resolver}
}

// RegisterRoutes registers the quote route behind the given middleware.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	api := r.Group("/api", mw...)
	api.POST("/quote", h.CreateQuote)
}

// CreateQuote handles POST /api/quote.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req application.QuoteRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	q, err := h.resolver.Resolve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "quote", q)
}
