package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/catalog"
	"shopmirror/internal/logger"
	"shopmirror/internal/models"
)

type ProductHandler struct {
	store    *catalog.Store
	resolver *catalog.InventoryResolver
	updater  *catalog.Updater
	remote   catalog.RemoteCatalog
	logger   *logger.Logger
}

func NewProductHandler(store *catalog.Store, resolver *catalog.InventoryResolver, updater *catalog.Updater, remote catalog.RemoteCatalog, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		store:    store,
		resolver: resolver,
		updater:  updater,
		remote:   remote,
		logger:   logger,
	}
}

// respondError translates taxonomy errors into the stable JSON error shape.
// Partial workflow failures keep their step attribution: the caller needs it
// to decide between retrying and reconciling manually.
func respondError(c *gin.Context, err error) {
	var partial *apierrors.PartialFailureError
	if errors.As(err, &partial) {
		c.JSON(apierrors.HTTPStatus(err), gin.H{
			"success":       false,
			"error":         partial.Error(),
			"step":          partial.Step,
			"price_updated": true,
		})
		return
	}
	c.JSON(apierrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opts := catalog.ListOptions{
		UpdatedOnly: c.Query("updatedOnly") == "1" || c.Query("updatedOnly") == "true",
		Query:       c.Query("q"),
		Page:        page,
		Limit:       limit,
	}

	records, total, err := h.store.List(opts)
	if err != nil {
		h.logger.Error("failed to list products: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
		"pagination": gin.H{
			"page":  opts.Page,
			"limit": opts.Limit,
			"total": total,
		},
	})
}

// resolve looks a product up in the local mirror first; for a numeric
// identifier with no mirror row it falls back to the remote catalog and
// mirrors the result.
func (h *ProductHandler) resolve(c *gin.Context, id string) (*models.Product, error) {
	record, err := h.store.Get(id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	shopifyID, parseErr := strconv.ParseInt(id, 10, 64)
	if parseErr != nil {
		return nil, apierrors.ErrNotFound
	}

	remote, err := h.remote.GetProduct(c.Request.Context(), shopifyID)
	if err != nil {
		return nil, err
	}
	return h.store.Upsert(remote)
}

func (h *ProductHandler) Get(c *gin.Context) {
	record, err := h.resolve(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("includeStock") != "1" && c.Query("includeStock") != "true" {
		c.JSON(http.StatusOK, gin.H{"data": record})
		return
	}

	stock, err := h.resolver.ResolveAvailability(c.Request.Context(), record.ShopifyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record, "stock": stock})
}

func (h *ProductHandler) Inventory(c *gin.Context) {
	record, err := h.resolve(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	stock, err := h.resolver.ResolveAvailability(c.Request.Context(), record.ShopifyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stock})
}

type updatePriceRequest struct {
	VariantID int64  `json:"variantId"`
	NewPrice  string `json:"newPrice"`
}

func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var body updatePriceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Token verification is handled upstream of this service; the acting
	// identity arrives as a header.
	actor := c.GetHeader("X-Actor-ID")
	if actor == "" {
		actor = "anonymous"
	}

	req := catalog.UpdateRequest{
		VariantID: body.VariantID,
		NewPrice:  body.NewPrice,
		Actor:     actor,
	}

	// A known mirror row supplies the owning product up front; otherwise the
	// workflow resolves it from the variant.
	if record, err := h.store.Get(c.Param("id")); err == nil {
		req.ProductID = record.ShopifyID
	} else if shopifyID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64); parseErr == nil {
		req.ProductID = shopifyID
	}

	result, err := h.updater.UpdatePrice(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("price update failed for variant %d: %v", body.VariantID, err)
		respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "data": result}
	if result.LocalWarning != "" {
		resp["warning"] = result.LocalWarning
	}
	c.JSON(http.StatusOK, resp)
}

// Delete forwards a product deletion upstream. The mirror row is left in
// place; remote deletions are not synchronized back.
func (h *ProductHandler) Delete(c *gin.Context) {
	record, err := h.resolve(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.remote.DeleteProduct(c.Request.Context(), record.ShopifyID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variant id must be numeric"})
		return
	}

	if err := h.remote.DeleteVariant(c.Request.Context(), variantID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
