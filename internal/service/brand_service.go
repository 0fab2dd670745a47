package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var brandTracer = otel.Tracer("service/brand")

// BrandService resolves brands and their escalation chains. Brands
// exist only in the electronics tenant; the complaint escalation flow
// asks this service where a complaint should go next.
type BrandService struct {
	store  port.BrandStore
	logger *zap.Logger

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewBrandService creates the brand service.
func NewBrandService(store port.BrandStore, logger *zap.Logger) *BrandService {
	return &BrandService{
		store:  store,
		logger: logger,
		Now:    time.Now,
	}
}

func brandTenantAllowed(tenant domain.Tenant) error {
	if tenant != domain.TenantElectronics {
		return &domain.ErrValidation{Field: "tenant", Message: "brands exist only in the electronics tenant"}
	}
	return nil
}

// ============================================================
// Brand CRUD
// ============================================================

func validateHierarchy(levels []domain.HierarchyLevel) error {
	for _, l := range levels {
		if strings.TrimSpace(l.Name) == "" {
			return &domain.ErrValidation{Field: "hierarchy", Message: "level name is required"}
		}
		if !domain.ValidPhone(l.Contact) {
			return &domain.ErrValidation{Field: "hierarchy", Message: "level contact must be a 10-digit mobile number"}
		}
	}
	return nil
}

// CreateBrand registers a brand with its ordered escalation chain.
// Brand names are unique case-insensitively, checked by a pre-scan
// because the store has no unique constraints.
func (s *BrandService) CreateBrand(ctx context.Context, tenant domain.Tenant, b *domain.Brand) (*domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.CreateBrand")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return nil, err
	}
	if strings.TrimSpace(b.BrandName) == "" {
		return nil, &domain.ErrValidation{Field: "brand_name", Message: "required"}
	}
	if len(b.Hierarchy) == 0 {
		return nil, &domain.ErrValidation{Field: "hierarchy", Message: "at least one level is required"}
	}
	if err := validateHierarchy(b.Hierarchy); err != nil {
		return nil, err
	}

	existing, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.BrandName, b.BrandName) {
			return nil, &domain.ErrDuplicate{Resource: "brand", Field: "brand_name", Value: b.BrandName}
		}
	}

	now := s.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.store.Create(ctx, tenant, b); err != nil {
		return nil, err
	}

	s.logger.Info("brand created",
		zap.String("tenant", string(tenant)),
		zap.String("brand", b.BrandName),
		zap.Int("levels", len(b.Hierarchy)),
	)
	return b, nil
}

// UpdateBrand replaces a brand's name and/or hierarchy.
func (s *BrandService) UpdateBrand(ctx context.Context, tenant domain.Tenant, id string, name *string, hierarchy []domain.HierarchyLevel) (*domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.UpdateBrand")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return nil, err
	}

	b, err := s.store.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, &domain.ErrValidation{Field: "brand_name", Message: "required"}
		}
		others, err := s.store.ListAll(ctx, tenant)
		if err != nil {
			return nil, err
		}
		for _, other := range others {
			if other.ID != id && strings.EqualFold(other.BrandName, *name) {
				return nil, &domain.ErrDuplicate{Resource: "brand", Field: "brand_name", Value: *name}
			}
		}
		b.BrandName = *name
		fields["brand_name"] = *name
	}
	if hierarchy != nil {
		if len(hierarchy) == 0 {
			return nil, &domain.ErrValidation{Field: "hierarchy", Message: "at least one level is required"}
		}
		if err := validateHierarchy(hierarchy); err != nil {
			return nil, err
		}
		b.Hierarchy = hierarchy
		fields["hierarchy"] = hierarchy
	}
	if len(fields) == 0 {
		return b, nil
	}

	b.UpdatedAt = s.Now()
	fields["updated_at"] = b.UpdatedAt

	if err := s.store.Update(ctx, tenant, id, fields); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBrand removes a brand.
func (s *BrandService) DeleteBrand(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := brandTracer.Start(ctx, "BrandService.DeleteBrand")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return err
	}
	if _, err := s.store.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, tenant, id)
}

// GetBrand fetches one brand.
func (s *BrandService) GetBrand(ctx context.Context, tenant domain.Tenant, id string) (*domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.GetBrand")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, tenant, id)
}

// ListBrands returns all brands in storage order.
func (s *BrandService) ListBrands(ctx context.Context, tenant domain.Tenant) ([]domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.ListBrands")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return nil, err
	}
	return s.store.ListAll(ctx, tenant)
}

// ============================================================
// Resolution
// ============================================================

// FindBrandByName matches a brand name case-insensitively (exact).
func (s *BrandService) FindBrandByName(ctx context.Context, tenant domain.Tenant, name string) (*domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.FindBrandByName")
	defer span.End()

	brands, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	for i := range brands {
		if strings.EqualFold(brands[i].BrandName, name) {
			return &brands[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "brand", ID: name}
}

// DetectBrandFromTitle returns the first brand (in storage order) whose
// name is a case-insensitive substring of the title. No ranking, no
// longest-match: first match wins. A nil result with nil error means
// no brand matched.
func (s *BrandService) DetectBrandFromTitle(ctx context.Context, tenant domain.Tenant, title string) (*domain.Brand, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.DetectBrandFromTitle")
	defer span.End()

	brands, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	lowerTitle := strings.ToLower(title)
	for i := range brands {
		if brands[i].BrandName == "" {
			continue
		}
		if strings.Contains(lowerTitle, strings.ToLower(brands[i].BrandName)) {
			return &brands[i], nil
		}
	}
	return nil, nil
}

// levelIndex finds currentContact in the chain by exact string match.
// Returns -1 when not present: the caller must not infer a position
// for a contact it cannot place.
func levelIndex(hierarchy []domain.HierarchyLevel, currentContact string) int {
	for i, l := range hierarchy {
		if l.Contact == currentContact {
			return i
		}
	}
	return -1
}

// GetNextLevel returns the level after currentContact in the brand's
// chain, annotated with its 1-based display level. Nil when the
// contact is unknown or already at the last level.
func (s *BrandService) GetNextLevel(ctx context.Context, tenant domain.Tenant, brandName, currentContact string) (*domain.EscalationTarget, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.GetNextLevel")
	defer span.End()

	b, err := s.FindBrandByName(ctx, tenant, brandName)
	if err != nil {
		return nil, err
	}

	idx := levelIndex(b.Hierarchy, currentContact)
	if idx < 0 || idx == len(b.Hierarchy)-1 {
		return nil, nil
	}
	next := b.Hierarchy[idx+1]
	return &domain.EscalationTarget{
		Name:    next.Name,
		Contact: next.Contact,
		Level:   idx + 2,
	}, nil
}

// IsAtLastLevel reports whether currentContact sits at the final level
// of the brand's chain. False for contacts not in the chain at all.
func (s *BrandService) IsAtLastLevel(ctx context.Context, tenant domain.Tenant, brandName, currentContact string) (bool, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.IsAtLastLevel")
	defer span.End()

	b, err := s.FindBrandByName(ctx, tenant, brandName)
	if err != nil {
		return false, err
	}
	idx := levelIndex(b.Hierarchy, currentContact)
	return idx >= 0 && idx == len(b.Hierarchy)-1, nil
}

// GetDefaultHierarchy reads the tenant's fallback contact.
func (s *BrandService) GetDefaultHierarchy(ctx context.Context, tenant domain.Tenant) (*domain.DefaultHierarchy, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.GetDefaultHierarchy")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return nil, err
	}
	return s.store.GetDefaultHierarchy(ctx, tenant)
}

// SetDefaultHierarchy replaces the tenant's fallback contact.
func (s *BrandService) SetDefaultHierarchy(ctx context.Context, tenant domain.Tenant, h *domain.DefaultHierarchy) error {
	ctx, span := brandTracer.Start(ctx, "BrandService.SetDefaultHierarchy")
	defer span.End()

	if err := brandTenantAllowed(tenant); err != nil {
		return err
	}
	if strings.TrimSpace(h.Name) == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !domain.ValidPhone(h.Contact) {
		return &domain.ErrValidation{Field: "contact", Message: "must be a 10-digit mobile number"}
	}
	return s.store.SetDefaultHierarchy(ctx, tenant, h)
}

// ResolveEscalation decides where a complaint currently at
// currentContact should escalate next:
//   - a next chain level when one exists;
//   - the default hierarchy once the chain is exhausted, unless the
//     complaint is already with that contact (then nothing);
//   - nothing when the contact cannot be placed in the chain.
func (s *BrandService) ResolveEscalation(ctx context.Context, tenant domain.Tenant, brandName, currentContact string) (*domain.EscalationTarget, error) {
	ctx, span := brandTracer.Start(ctx, "BrandService.ResolveEscalation")
	defer span.End()

	b, err := s.FindBrandByName(ctx, tenant, brandName)
	if err != nil {
		return nil, err
	}

	idx := levelIndex(b.Hierarchy, currentContact)
	if idx < 0 {
		return nil, nil
	}
	if idx < len(b.Hierarchy)-1 {
		next := b.Hierarchy[idx+1]
		return &domain.EscalationTarget{
			Name:    next.Name,
			Contact: next.Contact,
			Level:   idx + 2,
		}, nil
	}

	// Chain exhausted: fall back to the tenant default, if any.
	def, err := s.store.GetDefaultHierarchy(ctx, tenant)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	if def.Contact == currentContact {
		return nil, nil // already there
	}
	return &domain.EscalationTarget{
		Name:      def.Name,
		Contact:   def.Contact,
		Level:     len(b.Hierarchy) + 1,
		IsDefault: true,
	}, nil
}
