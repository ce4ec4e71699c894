package http

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListReports handles GET /api/v1/reports
func (h *Handlers) ListReports(c *gin.Context) {
	var req ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		badRequest(c, err)
		return
	}

	// Set defaults
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	reports, err := h.deps.Reports.ListReports(c.Request.Context(), ownerFrom(c), req.Limit, req.Offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	ok(c, ReportListResponse{Reports: reports, Limit: req.Limit, Offset: req.Offset})
}

// GetReport handles GET /api/v1/reports/:id
func (h *Handlers) GetReport(c *gin.Context) {
	report, err := h.deps.Reports.GetReport(c.Request.Context(), ownerFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, report)
}

// ExportReport handles GET /api/v1/reports/:id/export and streams the workbook
func (h *Handlers) ExportReport(c *gin.Context) {
	ctx := c.Request.Context()

	exportPath, err := h.deps.Reports.ExportReport(ctx, ownerFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	content, err := h.deps.Files.Read(ctx, exportPath)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+path.Base(exportPath)+`"`)
	c.Data(http.StatusOK, xlsxContentType, content)
}

// SendChatMessage handles POST /api/v1/chat/message
func (h *Handlers) SendChatMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.deps.Chat.SendMessage(c.Request.Context(), ownerFrom(c), req.Message, req.ReportID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, reply)
}
