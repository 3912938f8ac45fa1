package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joestump/gift-certs/internal/service"
	"github.com/joestump/gift-certs/internal/store"
)

// --- Certificate types ---

// CertificateRequest is the request body for POST /certificates and
// PUT /certificates/{id}. Price accepts a JSON number or a decimal string.
type CertificateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"`
	Tags        []string        `json:"tags,omitempty"`
}

func (req CertificateRequest) toCertificate() *store.Certificate {
	return &store.Certificate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Tags:        service.TagsFromNames(req.Tags),
	}
}

// PatchCertificateRequest is the request body for PATCH /certificates/{id}.
// Omitted fields keep their current value.
type PatchCertificateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Duration    *int             `json:"duration,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

func (req PatchCertificateRequest) toPatch() service.CertificatePatch {
	return service.CertificatePatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Tags:        req.Tags,
	}
}

// CertificateResponse is the JSON representation of a single certificate.
// Price is encoded as a decimal string.
type CertificateResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Duration       int             `json:"duration"`
	CreateDate     time.Time       `json:"createDate"`
	LastUpdateDate time.Time       `json:"lastUpdateDate"`
	Tags           []TagResponse   `json:"tags"`
}

// CertificateListResponse is the paginated response for certificate lists.
type CertificateListResponse struct {
	Certificates []CertificateResponse `json:"certificates"`
	Page         int                   `json:"page"`
	Size         int                   `json:"size"`
}

func toCertificateResponse(c *store.Certificate) CertificateResponse {
	tags := make([]TagResponse, 0, len(c.Tags))
	for _, t := range c.Tags {
		tags = append(tags, TagResponse{ID: t.ID, Name: t.Name})
	}
	return CertificateResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Price:          c.Price,
		Duration:       c.Duration,
		CreateDate:     c.CreateDate,
		LastUpdateDate: c.LastUpdateDate,
		Tags:           tags,
	}
}

// --- Tag types ---

// CreateTagRequest is the request body for POST /tags.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagListResponse wraps the tag list.
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}
