// Package b2b implements corporate quote intake and review.
package b2b

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/b2b"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// LogoBucket is the default bucket for corporate logos
	LogoBucket = "logo-corporativo"
	// LogoKeyPrefix is the key prefix of uploaded logos
	LogoKeyPrefix = "b2b-quotes/"
	// SalesPhone is the WhatsApp number quotes are routed to
	SalesPhone = "573000000000"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// ObjectStorage uploads files and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

// Service handles B2B quotes
type Service struct {
	repo    b2b.Repository
	storage ObjectStorage
	bucket  string
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new b2b Service. Logos go to bucket, or to
// LogoBucket when bucket is empty.
func NewService(repo b2b.Repository, storage ObjectStorage, bucket string, logger *zap.Logger) *Service {
	if bucket == "" {
		bucket = LogoBucket
	}
	return &Service{repo: repo, storage: storage, bucket: bucket, logger: logger, now: time.Now}
}

// LogoKey builds the storage key of a logo uploaded at t
func LogoKey(t time.Time, filename string) string {
	return fmt.Sprintf("%s%d-%s", LogoKeyPrefix, t.UnixMilli(), whitespaceRuns.ReplaceAllString(filename, "-"))
}

// Create stores a quote, uploading the logo first when one is attached
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest, logo *Logo) (*CreateQuoteResponse, error) {
	var logoURL *string
	if logo != nil {
		key := LogoKey(s.now(), logo.Filename)
		url, err := s.storage.Upload(ctx, s.bucket, key, logo.Data, logo.ContentType)
		if err != nil {
			s.logger.Error("logo upload failed", zap.String("key", key), zap.Error(err))
			return nil, shared.NewDomainError(shared.CodeInternal, "Error uploading logo")
		}
		logoURL = &url
	}

	q, err := b2b.NewQuote(req.request(), logoURL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("b2b quote received",
		zap.String("quote_id", q.ID.String()),
		zap.String("package", string(q.Package)),
		zap.Int("quantity", q.Quantity),
	)
	return &CreateQuoteResponse{
		Success: true,
		Quote:   q,
		WhatsAppPayload: WhatsAppPayload{
			Phone:   SalesPhone,
			Message: fmt.Sprintf("Hola, soy %s. Quote ID: %s", q.BusinessName, q.ID),
		},
	}, nil
}

// List returns quotes newest first
func (s *Service) List(ctx context.Context) ([]b2b.Quote, error) {
	return s.repo.FindAll(ctx)
}

// Get returns one quote
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*b2b.Quote, error) {
	q, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, b2b.NotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ApproveDesign marks the quote's artwork as approved
func (s *Service) ApproveDesign(ctx context.Context, id uuid.UUID) (*b2b.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q.ApproveDesign()
	if err := s.repo.UpdateStatus(ctx, id, q.Status); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, b2b.NotFound(id)
		}
		return nil, err
	}
	return q, nil
}
