package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	clearanceapp "github.com/friendserp/custom-clearance/internal/application/clearance"
	"github.com/friendserp/custom-clearance/internal/interfaces/http/middleware"
)

// ClearanceHandler handles clearance case HTTP requests
type ClearanceHandler struct {
	BaseHandler
	service     *clearanceapp.ClearanceService
	attachments *clearanceapp.AttachmentService
}

// NewClearanceHandler creates a new clearance handler
func NewClearanceHandler(service *clearanceapp.ClearanceService, attachments *clearanceapp.AttachmentService) *ClearanceHandler {
	return &ClearanceHandler{service: service, attachments: attachments}
}

// RegisterRoutes registers clearance routes
func (h *ClearanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.GetTemplateDocuments)

	clearances := rg.Group("/clearances")
	{
		clearances.POST("", h.Create)
		clearances.GET("", h.List)
		clearances.GET("/:id", h.Get)
		clearances.PATCH("/:id/status", h.UpdateStatus)
		clearances.PUT("/:id/documents/:docId/attachment", h.UpdateDocumentAttachment)
		clearances.PUT("/:id/documents/:docId/status", h.UpdateDocumentStatus)
		clearances.POST("/:id/invoice", h.CreateInvoice)
		clearances.PUT("/:id/payment-info", h.SavePaymentInfo)
		clearances.POST("/:id/payment-notification", h.SendPaymentNotification)
		clearances.PUT("/:id/payments/:paymentId/receipt", h.UpdatePaymentReceipt)
		clearances.GET("/:id/comments", h.GetComments)
		clearances.POST("/:id/comments", h.AddComment)
		clearances.POST("/:id/attachments/upload-url", h.RequestUploadURL)
		clearances.POST("/:id/attachments/download-url", h.ResolveDownloadURL)
	}
}

// Create godoc
// @Summary      Open a new clearance case
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        request body clearanceapp.CreateClearanceRequest true "New case"
// @Success      201 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances [post]
func (h *ClearanceHandler) Create(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	var req clearanceapp.CreateClearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.CreateClearance(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List clearance cases visible to the caller
// @Tags         clearances
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]clearanceapp.ClearanceResponse}
// @Security     BearerAuth
// @Router       /clearances [get]
func (h *ClearanceHandler) List(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	var filter clearanceapp.ClearanceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	items, total, err := h.service.ListClearances(c.Request.Context(), p, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get one clearance case
// @Tags         clearances
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id} [get]
func (h *ClearanceHandler) Get(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	resp, err := h.service.GetClearance(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetTemplateDocuments godoc
// @Summary      Preview the document checklist for a shipping type
// @Tags         clearances
// @Produce      json
// @Param        shipping_type query string true "Sea or Air"
// @Success      200 {object} dto.Response{data=[]clearanceapp.DocumentRequirementResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates [get]
func (h *ClearanceHandler) GetTemplateDocuments(c *gin.Context) {
	shippingType := c.Query("shipping_type")
	docs, err := h.service.GetTemplateDocuments(c.Request.Context(), shippingType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// UpdateStatusRequest carries a status change with an optional extra
// payment demand
type UpdateStatusRequest struct {
	Status                  string           `json:"status" binding:"required"`
	RiskStatusComment       string           `json:"risk_status_comment"`
	AdditionalPaymentAmount *decimal.Decimal `json:"additional_payment_amount,omitempty"`
}

// UpdateStatus godoc
// @Summary      Change the case status
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/status [patch]
func (h *ClearanceHandler) UpdateStatus(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateClearanceStatus(c.Request.Context(), p, id, req.Status, req.RiskStatusComment, req.AdditionalPaymentAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DocumentAttachmentRequest carries an uploaded file reference
type DocumentAttachmentRequest struct {
	FileURL    string `json:"file_url" binding:"required"`
	IsReupload bool   `json:"is_reupload"`
}

// UpdateDocumentAttachment godoc
// @Summary      Attach a file to a checklist document
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        docId path string true "Document row ID"
// @Param        request body DocumentAttachmentRequest true "File reference"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/documents/{docId}/attachment [put]
func (h *ClearanceHandler) UpdateDocumentAttachment(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	docID, ok := parseUUIDParam(c, "docId")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	var req DocumentAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateDocumentAttachment(c.Request.Context(), p, id, docID, req.FileURL, req.IsReupload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DocumentStatusRequest carries a document review verdict
type DocumentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateDocumentStatus godoc
// @Summary      Accept or reject a checklist document
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        docId path string true "Document row ID"
// @Param        request body DocumentStatusRequest true "Verdict"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/documents/{docId}/status [put]
func (h *ClearanceHandler) UpdateDocumentStatus(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	docID, ok := parseUUIDParam(c, "docId")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	var req DocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateDocumentStatus(c.Request.Context(), p, id, docID, req.Status, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateInvoice godoc
// @Summary      Bill the case by creating its service invoice
// @Tags         clearances
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Success      201 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/invoice [post]
func (h *ClearanceHandler) CreateInvoice(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	resp, err := h.service.CreateInvoiceFromClearance(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SavePaymentInfo godoc
// @Summary      Publish banking details for a payment installment
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body clearanceapp.SavePaymentInfoRequest true "Banking details"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/payment-info [put]
func (h *ClearanceHandler) SavePaymentInfo(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req clearanceapp.SavePaymentInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.SavePaymentInfo(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SendPaymentNotification godoc
// @Summary      Create a payment todo for the customer's portal user
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body clearanceapp.SendPaymentNotificationRequest true "Payment details"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/payment-notification [post]
func (h *ClearanceHandler) SendPaymentNotification(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req clearanceapp.SendPaymentNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if err := h.service.SendPaymentNotification(c.Request.Context(), p, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PaymentReceiptRequest carries an uploaded receipt reference
type PaymentReceiptRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

// UpdatePaymentReceipt godoc
// @Summary      Attach a payment receipt to a payment record
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        paymentId path string true "Payment row ID"
// @Param        request body PaymentReceiptRequest true "File reference"
// @Success      200 {object} dto.Response{data=clearanceapp.ClearanceResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/payments/{paymentId}/receipt [put]
func (h *ClearanceHandler) UpdatePaymentReceipt(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	paymentID, ok := parseUUIDParam(c, "paymentId")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	var req PaymentReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.UpdatePaymentReceipt(c.Request.Context(), p, id, paymentID, req.FileURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddCommentRequest carries a new thread message. The attachment URL is
// accepted for wire compatibility but never stored.
type AddCommentRequest struct {
	Content       string           `json:"content" binding:"required"`
	PaymentAmount *decimal.Decimal `json:"payment_amount,omitempty"`
	AttachmentURL string           `json:"attachment_url,omitempty"`
}

// AddComment godoc
// @Summary      Post a message on the case thread
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body AddCommentRequest true "Message"
// @Success      201 {object} dto.Response{data=clearanceapp.CommentResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/comments [post]
func (h *ClearanceHandler) AddComment(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.AddComment(c.Request.Context(), p, id, p.Email, req.Content, req.PaymentAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetComments godoc
// @Summary      Read the case thread
// @Tags         clearances
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Success      200 {object} dto.Response{data=[]clearanceapp.CommentResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/comments [get]
func (h *ClearanceHandler) GetComments(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	resp, err := h.service.GetComments(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadURLRequest asks for a presigned upload slot
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// RequestUploadURL godoc
// @Summary      Get a presigned URL for uploading a case file
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body UploadURLRequest true "File info"
// @Success      200 {object} dto.Response{data=clearanceapp.UploadTicket}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/attachments/upload-url [post]
func (h *ClearanceHandler) RequestUploadURL(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	ticket, err := h.attachments.RequestUpload(c.Request.Context(), p, id, req.FileName, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// DownloadURLRequest asks for a presigned download link
type DownloadURLRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// ResolveDownloadURL godoc
// @Summary      Get a presigned URL for downloading a case file
// @Tags         clearances
// @Accept       json
// @Produce      json
// @Param        id path string true "Clearance ID"
// @Param        request body DownloadURLRequest true "Storage key"
// @Success      200 {object} dto.Response{data=clearanceapp.DownloadTicket}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clearances/{id}/attachments/download-url [post]
func (h *ClearanceHandler) ResolveDownloadURL(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		h.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid clearance ID")
		return
	}
	var req DownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	ticket, err := h.attachments.ResolveDownload(c.Request.Context(), p, id, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}
