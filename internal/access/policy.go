package access

import (
	"slices"

	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

// Resource names a family of club scoped endpoints.
type Resource string

// Club scoped resources.
const (
	ResourceClub      Resource = "club"
	ResourceMember    Resource = "member"
	ResourceMandat    Resource = "mandat"
	ResourceComite    Resource = "comite"
	ResourceReunion   Resource = "reunion"
	ResourceBudget    Resource = "budget"
	ResourceEvenement Resource = "evenement"
	ResourceGala      Resource = "gala"
	ResourceDocument  Resource = "document"
	ResourcePaiement  Resource = "paiement"
)

// Operation is read or write.
type Operation string

// Operations.
const (
	Read  Operation = "read"
	Write Operation = "write"
)

// Key selects a policy entry.
type Key struct {
	Resource  Resource
	Operation Operation
}

func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Operation)
}

// ReadOf and WriteOf build keys.
func ReadOf(r Resource) Key  { return Key{Resource: r, Operation: Read} }
func WriteOf(r Resource) Key { return Key{Resource: r, Operation: Write} } //nolint:revive

// Policy maps a key to the roles allowed in addition to club membership.
// An empty role set means membership alone is enough. Read entries only mark the
// resource as known, reading a club always needs membership alone.
type Policy map[Key][]models.RoleName

var (
	committeeRoles = []models.RoleName{models.RolePresident, models.RoleSecretary}                       //nolint:gochecknoglobals
	financeRoles   = []models.RoleName{models.RolePresident, models.RoleSecretary, models.RoleTreasurer} //nolint:gochecknoglobals
)

// DefaultPolicy is the role table of the API.
// Committee like resources are managed by the president and the secretary,
// money and documents by the treasurer as well.
func DefaultPolicy() Policy {
	p := Policy{}

	for _, r := range []Resource{ResourceClub, ResourceMember, ResourceMandat, ResourceComite, ResourceReunion} {
		p[ReadOf(r)] = nil
		p[WriteOf(r)] = committeeRoles
	}

	for _, r := range []Resource{ResourceBudget, ResourceEvenement, ResourceGala, ResourceDocument, ResourcePaiement} {
		p[ReadOf(r)] = nil
		p[WriteOf(r)] = financeRoles
	}

	return p
}

// Roles returns the roles required by key and whether key is known.
func (p Policy) Roles(key Key) ([]models.RoleName, bool) {
	roles, ok := p[key]

	return roles, ok
}

// Satisfied reports whether held contains one of the roles required by key.
func (p Policy) Satisfied(key Key, held []models.RoleName) bool {
	required, ok := p[key]
	if !ok {
		return false
	}

	if len(required) == 0 {
		return true
	}

	for _, r := range held {
		if slices.Contains(required, r) {
			return true
		}
	}

	return false
}
