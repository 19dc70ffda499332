package clearance

import (
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateDocument is one required-document definition inside a template
type TemplateDocument struct {
	ID           uuid.UUID `json:"id"`
	DocumentName string    `json:"document_name"`
	IsRequired   bool      `json:"is_required"`
	HasSubItems  bool      `json:"has_sub_items"`
	SubItems     string    `json:"sub_items,omitempty"`
}

// Template defines the document checklist seeded into new clearances for a
// given shipping type
type Template struct {
	shared.BaseAggregateRoot
	TemplateName      string             `json:"template_name"`
	ShippingType      ShippingType       `json:"shipping_type"`
	IsActive          bool               `json:"is_active"`
	Description       string             `json:"description,omitempty"`
	RequiredDocuments []TemplateDocument `json:"required_documents"`
}

// NewTemplate creates a new checklist template
func NewTemplate(name string, shippingType ShippingType, description string, docs []TemplateDocument) (*Template, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot be empty")
	}
	if !shippingType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_TYPE", "Shipping type must be Sea or Air")
	}

	t := &Template{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TemplateName:      name,
		ShippingType:      shippingType,
		IsActive:          true,
		Description:       description,
		RequiredDocuments: make([]TemplateDocument, 0, len(docs)),
	}
	for _, d := range docs {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		t.RequiredDocuments = append(t.RequiredDocuments, d)
	}
	return t, nil
}
