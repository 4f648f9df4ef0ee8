package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCertificateRepository reads certificate images through the
// product_certificates join table
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewGormCertificateRepository creates a new GormCertificateRepository
func NewGormCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

type certificateImageRow struct {
	ProductItemID uuid.UUID
	ImageURL      string
}

// FindImageURLsByProductItems returns certificate image URLs per product item
func (r *GormCertificateRepository) FindImageURLsByProductItems(ctx context.Context, productItemIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(productItemIDs))
	if len(productItemIDs) == 0 {
		return out, nil
	}

	var rows []certificateImageRow
	if err := r.db.WithContext(ctx).
		Table("product_certificates AS pc").
		Select("pc.product_item_id, c.image_url").
		Joins("JOIN certificates AS c ON c.id = pc.certificate_id").
		Where("pc.product_item_id IN ?", productItemIDs).
		Order("pc.created_at").
		Scan(&rows).Error; err != nil {
		return nil, translateError("load certificates", err)
	}

	for _, row := range rows {
		if row.ImageURL == "" {
			continue
		}
		out[row.ProductItemID] = append(out[row.ProductItemID], row.ImageURL)
	}
	return out, nil
}

var _ catalog.CertificateRepository = (*GormCertificateRepository)(nil)
