package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_pos/internal/catalog"
	"api_pos/internal/checkout"
	"api_pos/internal/operator"
	"api_pos/internal/storesession"
)

// posHandler holds the core services and implements HTTP handlers for the
// point-of-sale surface. It is a thin adapter: every rule lives below it.
type posHandler struct {
	catalog   *catalog.Service
	checkout  *checkout.Service
	sessions  *storesession.Manager
	operators *operator.Directory
	logger    *zap.Logger
}

// NewPOSHandler creates a new POS handler.
func NewPOSHandler(
	cat *catalog.Service,
	chk *checkout.Service,
	sessions *storesession.Manager,
	operators *operator.Directory,
	logger *zap.Logger,
) *posHandler {
	return &posHandler{
		catalog:   cat,
		checkout:  chk,
		sessions:  sessions,
		operators: operators,
		logger:    logger,
	}
}

// handleSaveItem handles the POST /items endpoint.
func (h *posHandler) handleSaveItem(ctx *gin.Context) {
	var item catalog.Item
	if err := ctx.ShouldBindJSON(&item); err != nil {
		h.logger.Warn("failed to bind item", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	saved, err := h.catalog.Save(&item)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, catalog.ErrDuplicateBarcode):
			ctx.JSON(http.StatusConflict, gin.H{"error": "barcode already in use"})
		default:
			h.logger.Error("failed to save item", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save item"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, saved)
}

// handleGetItem handles the GET /items/:id endpoint.
func (h *posHandler) handleGetItem(ctx *gin.Context) {
	item, err := h.catalog.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read item"})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// handleListItems handles GET /items, optionally filtered by ?barcode=.
func (h *posHandler) handleListItems(ctx *gin.Context) {
	if code := ctx.Query("barcode"); code != "" {
		item, err := h.catalog.LookupByBarcode(code)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up barcode"})
			return
		}
		ctx.JSON(http.StatusOK, item)
		return
	}

	items, err := h.catalog.List()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": items})
}

// handleResolveScan handles GET /scan?payload=, mapping a raw optical
// payload to an item and unit the way the scan loop does per frame.
func (h *posHandler) handleResolveScan(ctx *gin.Context) {
	item, unitLabel, err := h.checkout.ResolveScan(ctx.Query("payload"))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotRecognized):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "payload not recognized"})
		case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrUnknownUnit):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no catalog entry for payload"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve scan"})
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": item, "unit": unitLabel})
}

// handleRestock handles the POST /items/:id/restock endpoint.
func (h *posHandler) handleRestock(ctx *gin.Context) {
	var req struct {
		Units map[string]int `json:"units"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	item, err := h.catalog.Restock(ctx.Param("id"), req.Units)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrUnknownUnit):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to restock", zap.String("item_id", ctx.Param("id")), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restock"})
		}
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// handleCheckout handles the POST /checkout endpoint: it builds a cart from
// the request lines and commits it in one call.
func (h *posHandler) handleCheckout(ctx *gin.Context) {
	var req struct {
		Lines []struct {
			ItemID  string `json:"item_id"`
			Barcode string `json:"barcode"`
			Unit    string `json:"unit"`
			Qty     int    `json:"qty"`
		} `json:"lines"`
		Payment    int    `json:"payment"`
		OperatorID string `json:"operator_id"`
		Note       string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	cart := checkout.NewCart()
	for _, ln := range req.Lines {
		var (
			item *catalog.Item
			err  error
		)
		if ln.ItemID != "" {
			item, err = h.catalog.GetByID(ln.ItemID)
		} else {
			item, err = h.catalog.LookupByBarcode(ln.Barcode)
		}
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read item"})
			return
		}
		if err := cart.AddLine(item, ln.Unit, ln.Qty); err != nil {
			if errors.Is(err, catalog.ErrInsufficientStock) {
				ctx.JSON(http.StatusConflict, gin.H{"error": "insufficient stock for " + item.Name})
				return
			}
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	tx, err := h.checkout.Commit(cart, req.Payment, req.OperatorID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrStoreClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "store is not open"})
		case errors.Is(err, checkout.ErrEmptyCart):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, checkout.ErrInsufficientPayment):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "insufficient payment"})
		case errors.Is(err, catalog.ErrInsufficientStock):
			ctx.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		default:
			h.logger.Error("failed to commit", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit transaction"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, tx)
}

// handleListTransactions handles the GET /transactions endpoint.
func (h *posHandler) handleListTransactions(ctx *gin.Context) {
	txs, err := h.checkout.ListTransactions()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": txs})
}

// handleOpenSession handles the POST /sessions/open endpoint.
func (h *posHandler) handleOpenSession(ctx *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		CashStart int    `json:"cash_start"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	s, err := h.sessions.Open(req.Username, req.Password, req.CashStart)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, storesession.ErrAlreadyOpen):
			ctx.JSON(http.StatusConflict, gin.H{"error": "a store session is already open"})
		case errors.Is(err, storesession.ErrBadCashStart):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to open session", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, s)
}

// handleCloseSession handles the POST /sessions/close endpoint.
func (h *posHandler) handleCloseSession(ctx *gin.Context) {
	var req struct {
		Password string `json:"password"`
		CashEnd  *int   `json:"cash_end"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	s, err := h.sessions.Close(req.Password, req.CashEnd)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, storesession.ErrNotOpen):
			ctx.JSON(http.StatusConflict, gin.H{"error": "no open store session"})
		default:
			h.logger.Error("failed to close session", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close session"})
		}
		return
	}
	ctx.JSON(http.StatusOK, s)
}

// handleActiveSession handles the GET /sessions/active endpoint.
func (h *posHandler) handleActiveSession(ctx *gin.Context) {
	s, err := h.sessions.Active()
	if err != nil {
		if errors.Is(err, storesession.ErrNotOpen) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no open store session"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}
	ctx.JSON(http.StatusOK, s)
}

// handleListSessions handles the GET /sessions endpoint.
func (h *posHandler) handleListSessions(ctx *gin.Context) {
	sessions, err := h.sessions.List()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": sessions})
}

// handleAddOperator handles the POST /operators endpoint.
func (h *posHandler) handleAddOperator(ctx *gin.Context) {
	var req struct {
		Username      string `json:"username"`
		Password      string `json:"password"`
		Role          string `json:"role"`
		AdminPassword string `json:"admin_password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	op, err := h.operators.AddOperator(req.Username, req.Password, req.Role, req.AdminPassword)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, operator.ErrUsernameTaken):
			ctx.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
		case errors.Is(err, operator.ErrInvalidRole):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to add operator", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add operator"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, op)
}

// handleChangePassword handles the PATCH /operators/password endpoint.
func (h *posHandler) handleChangePassword(ctx *gin.Context) {
	var req struct {
		Username    string `json:"username"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.operators.ChangePassword(req.Username, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, operator.ErrUnauthorized) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		h.logger.Error("failed to change password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
