package hostRepo

import "schedulify/models"

// HostRepository defines persistence for host profiles.
// Lookups return (nil, nil) when no matching host exists.
type HostRepository interface {
	Create(host *models.Host) error
	GetByOID(oid string) (*models.Host, error)
	GetBySlug(slug string) (*models.Host, error)
	GetByEmail(email string) (*models.Host, error)
	UpdateIdentity(oid, email, name, slug string) error
	UpdateSettings(oid string, policy models.AvailabilityPolicy, videoLink string) error
	UpdateTokenCache(oid, cache string) error
	SlugTaken(slug, oid string) (bool, error)
}
