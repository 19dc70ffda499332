package clearance

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
)

// ObjectStorageService abstracts the object store holding document scans
// and payment receipts
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// allowedContentTypes lists the MIME types accepted for document scans
// and payment receipts
var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// AttachmentService issues presigned URLs for clearance file traffic. The
// caller uploads directly to the object store; only the storage key is
// recorded on the clearance.
type AttachmentService struct {
	clearanceRepo clearance.Repository
	access        AccessResolver
	storage       ObjectStorageService
	urlExpiry     time.Duration
	logger        *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	clearanceRepo clearance.Repository,
	access AccessResolver,
	storage ObjectStorageService,
	urlExpiry time.Duration,
	logger *zap.Logger,
) *AttachmentService {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &AttachmentService{
		clearanceRepo: clearanceRepo,
		access:        access,
		storage:       storage,
		urlExpiry:     urlExpiry,
		logger:        logger,
	}
}

// UploadTicket is a presigned upload slot for one file
type UploadTicket struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadTicket is a presigned download link for one stored file
type DownloadTicket struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RequestUpload issues a presigned upload URL for a file belonging to the
// clearance. The caller must be staff or an owner of the case.
func (s *AttachmentService) RequestUpload(ctx context.Context, caller Principal, clearanceID uuid.UUID, fileName, contentType string) (*UploadTicket, error) {
	c, err := s.loadForCaller(ctx, caller, clearanceID)
	if err != nil {
		return nil, err
	}
	if !allowedContentTypes[contentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", fmt.Sprintf("File type %s is not accepted", contentType))
	}

	storageKey := buildStorageKey(c.ID, fileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.urlExpiry)
	if err != nil {
		s.logger.Error("failed to generate upload URL",
			zap.String("clearance_id", c.ID.String()),
			zap.Error(err))
		return nil, err
	}

	return &UploadTicket{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ResolveDownload issues a presigned download URL for a storage key already
// attached to the clearance. Keys not referenced by the case are rejected so
// a caller cannot walk the bucket.
func (s *AttachmentService) ResolveDownload(ctx context.Context, caller Principal, clearanceID uuid.UUID, storageKey string) (*DownloadTicket, error) {
	c, err := s.loadForCaller(ctx, caller, clearanceID)
	if err != nil {
		return nil, err
	}
	if !clearanceReferences(c, storageKey) {
		return nil, shared.ErrNotFound
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.urlExpiry)
	if err != nil {
		s.logger.Error("failed to generate download URL",
			zap.String("clearance_id", c.ID.String()),
			zap.Error(err))
		return nil, err
	}

	return &DownloadTicket{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifyUploaded confirms the file behind a storage key actually landed in
// the object store
func (s *AttachmentService) VerifyUploaded(ctx context.Context, storageKey string) error {
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("UPLOAD_NOT_FOUND", "The uploaded file could not be found in storage")
	}
	return nil
}

func (s *AttachmentService) loadForCaller(ctx context.Context, caller Principal, clearanceID uuid.UUID) (*clearance.Clearance, error) {
	c, err := s.clearanceRepo.FindByID(ctx, clearanceID)
	if err != nil {
		return nil, err
	}
	if caller.IsStaff() {
		return c, nil
	}
	customer, err := s.access.ResolveCustomerFor(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if customer == nil || !c.IsOwnedBy(customer.ID) {
		return nil, shared.ErrPermissionDenied
	}
	return c, nil
}

func buildStorageKey(clearanceID uuid.UUID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("clearances/%s/%s-%s", clearanceID, uuid.New().String()[:8], base)
}

func clearanceReferences(c *clearance.Clearance, storageKey string) bool {
	for _, d := range c.RequiredDocuments {
		if d.Attachment == storageKey {
			return true
		}
	}
	for _, p := range c.Payments {
		if p.Attachment == storageKey {
			return true
		}
	}
	return false
}
