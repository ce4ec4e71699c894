package http

import (
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// BusinessRequest is the body of PUT /wizards/:id/business. Fields may be
// left blank while the user is typing; the step refuses to advance until
// all of them are filled.
type BusinessRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type" binding:"omitempty,oneof=supermarket retail pharmacy grocery other"`
	Location string `json:"location"`
	Size     string `json:"size" binding:"omitempty,oneof=small medium large"`
}

func (r BusinessRequest) toEntity() entity.BusinessInfo {
	return entity.BusinessInfo{
		Name:     r.Name,
		Type:     r.Type,
		Location: r.Location,
		Size:     r.Size,
	}
}

// SupplierRequest is the body of PUT /wizards/:id/supplier
type SupplierRequest struct {
	SupplierName string `json:"supplierName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	DeliveryDays string `json:"deliveryDays"`
}

func (r SupplierRequest) toEntity() entity.SupplierInfo {
	return entity.SupplierInfo{
		SupplierName: r.SupplierName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		DeliveryDays: r.DeliveryDays,
	}
}

// FieldUpdateRequest is the body of PATCH on a product or stock entry.
// Fields maps field names (e.g. "sellingPrice") to their new values.
type FieldUpdateRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// EntryIndexURI binds the :index path parameter of list routes
type EntryIndexURI struct {
	Index int `uri:"index" binding:"min=0"`
}

// ChatRequest is the body of POST /chat/message
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	ReportID  string `json:"reportId"`
	Timestamp string `json:"timestamp"`
}

// ListReportsRequest represents query parameters for listing reports
type ListReportsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset" binding:"min=0"`
}

// SubmitQuery controls whether POST /submit waits for the outcome
type SubmitQuery struct {
	Wait bool `form:"wait"`
}

// EntryResponse reports the result of a list mutation along with the
// wizard's new state
type EntryResponse struct {
	Index   int         `json:"index"`
	Removed *bool       `json:"removed,omitempty"`
	Wizard  wizard.View `json:"wizard"`
}

// AttachmentResponse is returned after a successful upload
type AttachmentResponse struct {
	Attachment entity.Attachment `json:"attachment"`
	Wizard     wizard.View       `json:"wizard"`
}

// NotificationsResponse holds the drained inbox
type NotificationsResponse struct {
	Notifications []wizard.Notification `json:"notifications"`
}

// ReportListResponse holds one page of the caller's reports
type ReportListResponse struct {
	Reports []*entity.Report `json:"reports"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
