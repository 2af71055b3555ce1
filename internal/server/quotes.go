package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

type createQuoteRequest struct {
	Items       []taxdomain.QuoteItem `json:"items"`
	TaxIncluded *bool                 `json:"tax_included,omitempty"`
}

// CreateQuote prices a cart. The pricing mode defaults to the org-wide
// preference when the request leaves it unset.
func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	taxIncluded := s.cfg.TaxIncludedDefault
	if req.TaxIncluded != nil {
		taxIncluded = *req.TaxIncluded
	}

	resp, err := s.quoter.Quote(c.Request.Context(), taxdomain.QuoteRequest{
		Items:       req.Items,
		TaxIncluded: taxIncluded,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
