package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/bizsuite/taxkit/internal/orgcontext"
	productdomain "github.com/bizsuite/taxkit/internal/product/domain"
)

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.productSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type replaceProductTaxesRequest struct {
	TaxIDs []string `json:"tax_ids"`
}

// GetProductTaxes returns the product's tax override set. An empty list
// means the product falls back to the org default taxes.
func (s *Server) GetProductTaxes(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid product id"))
		return
	}

	ids, err := s.productTax.TaxIDs(c.Request.Context(), orgID, productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tax_ids": out}})
}

func (s *Server) ReplaceProductTaxes(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid product id"))
		return
	}

	// The product must exist before it can carry overrides.
	if _, err := s.productSvc.Get(c.Request.Context(), productID.String()); err != nil {
		AbortWithError(c, err)
		return
	}

	var req replaceProductTaxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	taxIDs := make([]snowflake.ID, 0, len(req.TaxIDs))
	for _, raw := range req.TaxIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, newValidationError("tax_ids", "invalid_tax_id", "invalid tax id"))
			return
		}
		taxIDs = append(taxIDs, id)
	}

	if err := s.productTax.Replace(c.Request.Context(), orgID, productID, taxIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tax_ids": req.TaxIDs}})
}
