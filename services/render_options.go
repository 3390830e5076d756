package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyProfile is the builder's letterhead and registration details.
type CompanyProfile struct {
	Name          string
	Address       string
	Phone         string
	Email         string
	ABN           string
	LicenceNumber string
	Signatory     string
}

// RenderOptions configures a single render. The zero value is not usable;
// build one with newRenderOptions.
type RenderOptions struct {
	Company CompanyProfile
	Now     func() time.Time
	Logger  *zap.Logger
}

type RenderOption func(*RenderOptions)

func WithCompany(p CompanyProfile) RenderOption {
	return func(o *RenderOptions) { o.Company = p }
}

// WithClock fixes the generation date printed on documents.
func WithClock(now func() time.Time) RenderOption {
	return func(o *RenderOptions) { o.Now = now }
}

func WithLogger(l *zap.Logger) RenderOption {
	return func(o *RenderOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

func newRenderOptions(kind DocumentKind, opts ...RenderOption) RenderOptions {
	o := RenderOptions{
		Now:    time.Now,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.Logger = o.Logger.With(
		zap.String("render_id", uuid.NewString()),
		zap.String("document_kind", string(kind)),
	)
	return o
}
