package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence/models"
)

// GormClearanceRepository implements clearance.Repository using GORM
type GormClearanceRepository struct {
	db *gorm.DB
}

// NewGormClearanceRepository creates a new GormClearanceRepository
func NewGormClearanceRepository(db *gorm.DB) *GormClearanceRepository {
	return &GormClearanceRepository{db: db}
}

var _ clearance.Repository = (*GormClearanceRepository)(nil)

// FindByID finds a clearance by its ID, including the document checklist
// and payment rows
func (r *GormClearanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*clearance.Clearance, error) {
	var model models.ClearanceModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCaseNumber finds a clearance by its case number
func (r *GormClearanceRepository) FindByCaseNumber(ctx context.Context, caseNumber string) (*clearance.Clearance, error) {
	var model models.ClearanceModel
	if err := r.preloaded(ctx).First(&model, "case_number = ?", caseNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoiceID finds the clearance linked to the given invoice
func (r *GormClearanceRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*clearance.Clearance, error) {
	var model models.ClearanceModel
	if err := r.preloaded(ctx).First(&model, "invoice_id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds clearances matching the filter, newest first
func (r *GormClearanceRepository) FindAll(ctx context.Context, filter clearance.Filter) ([]clearance.Clearance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClearanceModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Search != "" {
		query = query.Where("case_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clearanceModels []models.ClearanceModel
	if err := query.
		Preload("RequiredDocuments", sortedBy("sort_order")).
		Preload("Payments", sortedBy("sort_order")).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&clearanceModels).Error; err != nil {
		return nil, 0, err
	}

	clearances := make([]clearance.Clearance, len(clearanceModels))
	for i, model := range clearanceModels {
		clearances[i] = *model.ToDomain()
	}
	return clearances, total, nil
}

// Save persists the full aggregate including child rows
func (r *GormClearanceRepository) Save(ctx context.Context, c *clearance.Clearance) error {
	model := models.ClearanceModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RequiredDocuments", "Payments").Save(&model).Error; err != nil {
			return err
		}

		// Child rows are owned by the aggregate: replace them wholesale
		if err := tx.Where("clearance_id = ?", model.ID).
			Delete(&models.DocumentRequirementModel{}).Error; err != nil {
			return err
		}
		if len(model.RequiredDocuments) > 0 {
			if err := tx.Create(&model.RequiredDocuments).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("clearance_id = ?", model.ID).
			Delete(&models.PaymentEntryModel{}).Error; err != nil {
			return err
		}
		if len(model.Payments) > 0 {
			if err := tx.Create(&model.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus is a targeted system write of the overall status
func (r *GormClearanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status clearance.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClearanceModel{}).
		Where("id = ?", id).
		Update("status", status.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePaymentStatus is a targeted system write of the mirrored payment
// status. The payment date is only stamped when one is supplied; a nil date
// leaves the stored value untouched (only UnlinkInvoice clears it).
func (r *GormClearanceRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status clearance.PaymentStatus, paymentDate *time.Time) error {
	updates := map[string]interface{}{
		"payment_status": string(status),
	}
	if paymentDate != nil {
		updates["payment_date"] = *paymentDate
	}
	result := r.db.WithContext(ctx).
		Model(&models.ClearanceModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UnlinkInvoice clears the invoice back-link and resets the mirrored
// payment fields
func (r *GormClearanceRepository) UnlinkInvoice(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClearanceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"invoice_id":     nil,
			"payment_status": string(clearance.PaymentStatusPending),
			"payment_date":   nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateCaseNumber generates a unique case number.
// Format: CC-YYYY-NNNNN (e.g., CC-2026-00001)
func (r *GormClearanceRepository) GenerateCaseNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("CC-%d-", year)

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&models.ClearanceModel{}).
		Where("case_number LIKE ?", prefix+"%").
		Order("case_number DESC").
		Limit(1).
		Pluck("case_number", &lastNumber).Error
	if err != nil {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		parts := strings.Split(lastNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}
	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormClearanceRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("RequiredDocuments", sortedBy("sort_order")).
		Preload("Payments", sortedBy("sort_order"))
}

func sortedBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " ASC")
	}
}

// GormTemplateRepository implements clearance.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

var _ clearance.TemplateRepository = (*GormTemplateRepository)(nil)

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*clearance.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Preload("RequiredDocuments", sortedBy("sort_order")).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShippingType finds the active template for a shipping type
func (r *GormTemplateRepository) FindByShippingType(ctx context.Context, shippingType clearance.ShippingType) (*clearance.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Preload("RequiredDocuments", sortedBy("sort_order")).
		Where("shipping_type = ? AND is_active = ?", string(shippingType), true).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all templates
func (r *GormTemplateRepository) FindAll(ctx context.Context) ([]clearance.Template, error) {
	var templateModels []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Preload("RequiredDocuments", sortedBy("sort_order")).
		Order("template_name ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	templates := make([]clearance.Template, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// Save persists the template including its document definitions
func (r *GormTemplateRepository) Save(ctx context.Context, t *clearance.Template) error {
	model := models.TemplateModelFromDomain(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RequiredDocuments").Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", model.ID).
			Delete(&models.TemplateDocumentModel{}).Error; err != nil {
			return err
		}
		if len(model.RequiredDocuments) > 0 {
			if err := tx.Create(&model.RequiredDocuments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
