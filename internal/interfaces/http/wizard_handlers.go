package http

import (
	"context"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// CreateWizard handles POST /api/v1/wizards
func (h *Handlers) CreateWizard(c *gin.Context) {
	session := h.deps.Sessions.Create(ownerFrom(c), credentialFrom(c))

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    session.Wizard.View(),
	})
}

// GetWizard handles GET /api/v1/wizards/:id
func (h *Handlers) GetWizard(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	ok(c, session.Wizard.View())
}

// DiscardWizard handles DELETE /api/v1/wizards/:id
func (h *Handlers) DiscardWizard(c *gin.Context) {
	if err := h.deps.Sessions.Discard(c.Request.Context(), c.Param("id"), ownerFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, gin.H{"discarded": c.Param("id")})
}

// SetBusiness handles PUT /api/v1/wizards/:id/business
func (h *Handlers) SetBusiness(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := session.Wizard.SetBusiness(req.toEntity()); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, session.Wizard.View())
}

// SetSupplier handles PUT /api/v1/wizards/:id/supplier
func (h *Handlers) SetSupplier(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := session.Wizard.SetSupplier(req.toEntity()); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, session.Wizard.View())
}

// entryList adapts the product and stock list operations of a wizard so
// both routes share one set of handlers
type entryList struct {
	append func(w *wizard.Wizard) (int, error)
	remove func(w *wizard.Wizard, index int) (bool, error)
	update func(w *wizard.Wizard, index int, field, value string) error
	// known reports whether field names an entry field
	known func(field string) bool
}

var productList = entryList{
	append: (*wizard.Wizard).AppendProduct,
	remove: (*wizard.Wizard).RemoveProduct,
	update: (*wizard.Wizard).UpdateProduct,
	known: func(field string) bool {
		var probe entity.ProductEntry
		return probe.Set(field, "") == nil
	},
}

var stockList = entryList{
	append: (*wizard.Wizard).AppendStockEntry,
	remove: (*wizard.Wizard).RemoveStockEntry,
	update: (*wizard.Wizard).UpdateStockEntry,
	known: func(field string) bool {
		var probe entity.StockEntry
		return probe.Set(field, "") == nil
	},
}

// AppendProduct handles POST /api/v1/wizards/:id/products
func (h *Handlers) AppendProduct(c *gin.Context) { h.appendEntry(c, productList) }

// UpdateProduct handles PATCH /api/v1/wizards/:id/products/:index
func (h *Handlers) UpdateProduct(c *gin.Context) { h.updateEntry(c, productList) }

// RemoveProduct handles DELETE /api/v1/wizards/:id/products/:index
func (h *Handlers) RemoveProduct(c *gin.Context) { h.removeEntry(c, productList) }

// AppendStockEntry handles POST /api/v1/wizards/:id/stock
func (h *Handlers) AppendStockEntry(c *gin.Context) { h.appendEntry(c, stockList) }

// UpdateStockEntry handles PATCH /api/v1/wizards/:id/stock/:index
func (h *Handlers) UpdateStockEntry(c *gin.Context) { h.updateEntry(c, stockList) }

// RemoveStockEntry handles DELETE /api/v1/wizards/:id/stock/:index
func (h *Handlers) RemoveStockEntry(c *gin.Context) { h.removeEntry(c, stockList) }

func (h *Handlers) appendEntry(c *gin.Context, list entryList) {
	session := h.session(c)
	if session == nil {
		return
	}

	index, err := list.append(session.Wizard)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    EntryResponse{Index: index, Wizard: session.Wizard.View()},
	})
}

func (h *Handlers) updateEntry(c *gin.Context, list entryList) {
	session := h.session(c)
	if session == nil {
		return
	}

	var uri EntryIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// Reject the whole request before touching the entry if any name is wrong
	fields := make([]string, 0, len(req.Fields))
	for field := range req.Fields {
		if !list.known(field) {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown field: " + field})
			return
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if err := list.update(session.Wizard, uri.Index, field, req.Fields[field]); err != nil {
			h.writeError(c, err)
			return
		}
	}
	ok(c, EntryResponse{Index: uri.Index, Wizard: session.Wizard.View()})
}

func (h *Handlers) removeEntry(c *gin.Context, list entryList) {
	session := h.session(c)
	if session == nil {
		return
	}

	var uri EntryIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	removed, err := list.remove(session.Wizard, uri.Index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, EntryResponse{Index: uri.Index, Removed: &removed, Wizard: session.Wizard.View()})
}

// Next handles POST /api/v1/wizards/:id/next
func (h *Handlers) Next(c *gin.Context) {
	h.navigate(c, (*wizard.Wizard).Next)
}

// Back handles POST /api/v1/wizards/:id/back
func (h *Handlers) Back(c *gin.Context) {
	h.navigate(c, (*wizard.Wizard).Back)
}

// Skip handles POST /api/v1/wizards/:id/skip
func (h *Handlers) Skip(c *gin.Context) {
	h.navigate(c, (*wizard.Wizard).Skip)
}

// Restart handles POST /api/v1/wizards/:id/restart
func (h *Handlers) Restart(c *gin.Context) {
	h.navigate(c, (*wizard.Wizard).Restart)
}

func (h *Handlers) navigate(c *gin.Context, move func(*wizard.Wizard, context.Context) error) {
	session := h.session(c)
	if session == nil {
		return
	}
	if err := move(session.Wizard, c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, session.Wizard.View())
}

// Submit handles POST /api/v1/wizards/:id/submit. The report is generated
// in the background; with ?wait=true the response is held until it settles.
func (h *Handlers) Submit(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var query SubmitQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	outcome, err := session.Wizard.Submit(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !query.Wait {
		c.JSON(http.StatusAccepted, Response{Success: true, Data: session.Wizard.View()})
		return
	}

	select {
	case result := <-outcome:
		if result.Err != nil {
			h.writeError(c, result.Err)
			return
		}
		ok(c, session.Wizard.View())
	case <-c.Request.Context().Done():
		// The submission carries on without the caller
		c.JSON(http.StatusAccepted, Response{Success: true, Data: session.Wizard.View()})
	}
}

// UploadAttachment handles POST /api/v1/wizards/:id/attachments (multipart field "file")
func (h *Handlers) UploadAttachment(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	att, err := h.deps.Attachments.Attach(c.Request.Context(), session.Wizard,
		header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    AttachmentResponse{Attachment: att, Wizard: session.Wizard.View()},
	})
}

// RemoveAttachment handles DELETE /api/v1/wizards/:id/attachments/:attachmentId
func (h *Handlers) RemoveAttachment(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	if err := h.deps.Attachments.Detach(c.Request.Context(), session.Wizard, c.Param("attachmentId")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, session.Wizard.View())
}

// Notifications handles GET /api/v1/wizards/:id/notifications. Reading
// empties the inbox.
func (h *Handlers) Notifications(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	notifications := session.Inbox.Drain()
	if notifications == nil {
		notifications = []wizard.Notification{}
	}
	ok(c, NotificationsResponse{Notifications: notifications})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   "invalid request: " + err.Error(),
	})
}
