package testutil

import (
	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/util"
)

// PrincipalBuilder provides a fluent interface for building admin principals for testing.
type PrincipalBuilder struct {
	p domainauth.Principal
}

// NewPrincipal creates a PrincipalBuilder with sensible defaults (a support admin).
func NewPrincipal() *PrincipalBuilder {
	return &PrincipalBuilder{p: domainauth.Principal{
		ID:        "adm-1",
		Email:     "ops@example.com",
		Name:      "Ops Admin",
		Role:      domainauth.RoleSupport,
		CreatedAt: util.Timestamp{Time: TestTime()},
		UpdatedAt: util.Timestamp{Time: TestTime()},
	}}
}

// WithID sets the principal ID.
func (b *PrincipalBuilder) WithID(id string) *PrincipalBuilder {
	b.p.ID = id
	return b
}

// WithEmail sets the principal email.
func (b *PrincipalBuilder) WithEmail(email string) *PrincipalBuilder {
	b.p.Email = email
	return b
}

// WithRole sets the principal role.
func (b *PrincipalBuilder) WithRole(role domainauth.Role) *PrincipalBuilder {
	b.p.Role = role
	return b
}

// Elevated sets the super admin role.
func (b *PrincipalBuilder) Elevated() *PrincipalBuilder {
	return b.WithRole(domainauth.RoleSuperAdmin)
}

// Build returns a pointer to a copy of the principal.
func (b *PrincipalBuilder) Build() *domainauth.Principal {
	p := b.p
	return &p
}

// OrganizationBuilder provides a fluent interface for building organizations for testing.
type OrganizationBuilder struct {
	o model.Organization
}

// NewOrganization creates an OrganizationBuilder with sensible defaults.
func NewOrganization() *OrganizationBuilder {
	return &OrganizationBuilder{o: model.Organization{
		ID:        "org-1",
		Name:      "Acme Salon",
		Slug:      "acme-salon",
		Status:    model.OrganizationStatusActive,
		CreatedAt: util.Timestamp{Time: TestTime()},
	}}
}

// WithID sets the organization ID.
func (b *OrganizationBuilder) WithID(id string) *OrganizationBuilder {
	b.o.ID = id
	return b
}

// WithName sets the organization name.
func (b *OrganizationBuilder) WithName(name string) *OrganizationBuilder {
	b.o.Name = name
	return b
}

// WithStatus sets the organization status.
func (b *OrganizationBuilder) WithStatus(s model.OrganizationStatus) *OrganizationBuilder {
	b.o.Status = s
	return b
}

// Build returns the organization.
func (b *OrganizationBuilder) Build() model.Organization {
	return b.o
}

// Detail wraps the organization in an OrganizationDetail with no members.
func (b *OrganizationBuilder) Detail() model.OrganizationDetail {
	return model.OrganizationDetail{Organization: b.o}
}
