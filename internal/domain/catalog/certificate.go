package catalog

import (
	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
)

// Certificate is a pedigree or health certificate image
type Certificate struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	ImageURL string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Certificate) TableName() string {
	return "certificates"
}

// ProductCertificate links a certificate to a product item
type ProductCertificate struct {
	shared.BaseEntity
	ProductItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	CertificateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider      string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ProductCertificate) TableName() string {
	return "product_certificates"
}
