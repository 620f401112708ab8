package identity

// Role is the authorization role assigned to a user. Permissions are a
// static table: this system has four fixed roles rather than configurable
// role aggregates.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOffice    Role = "office"
	RoleLogistics Role = "logistics"
	RoleTrainer   Role = "trainer"
)

// Permission names follow "<resource>:<action>".
const (
	PermUsersRead     = "users:read"
	PermUsersWrite    = "users:write"
	PermDealsRead     = "deals:read"
	PermDealsWrite    = "deals:write"
	PermSessionsRead  = "sessions:read"
	PermSessionsWrite = "sessions:write"
	PermResourcesRead  = "resources:read"
	PermResourcesWrite = "resources:write"
	PermCatalogRead   = "catalog:read"
	PermCatalogWrite  = "catalog:write"
	PermOrdersRead    = "orders:read"
	PermOrdersWrite   = "orders:write"
	PermPayrollRead   = "payroll:read"
	PermPayrollWrite  = "payroll:write"
	PermCertsRead     = "certificates:read"
	PermCertsWrite    = "certificates:write"
	PermDashboardRead = "dashboard:read"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermUsersRead, PermUsersWrite,
		PermDealsRead, PermDealsWrite,
		PermSessionsRead, PermSessionsWrite,
		PermResourcesRead, PermResourcesWrite,
		PermCatalogRead, PermCatalogWrite,
		PermOrdersRead, PermOrdersWrite,
		PermPayrollRead, PermPayrollWrite,
		PermCertsRead, PermCertsWrite,
		PermDashboardRead,
	},
	RoleOffice: {
		PermDealsRead, PermDealsWrite,
		PermSessionsRead, PermSessionsWrite,
		PermResourcesRead, PermResourcesWrite,
		PermCatalogRead, PermCatalogWrite,
		PermOrdersRead, PermOrdersWrite,
		PermCertsRead, PermCertsWrite,
		PermDashboardRead,
	},
	RoleLogistics: {
		PermSessionsRead,
		PermResourcesRead,
		PermOrdersRead, PermOrdersWrite,
		PermDashboardRead,
	},
	RoleTrainer: {
		PermSessionsRead,
		PermResourcesRead,
		PermDashboardRead,
	},
}

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the permission set granted by the role.
// The returned slice must not be mutated.
func (r Role) Permissions() []string {
	return rolePermissions[r]
}

// HasPermission reports whether the role grants the given permission
func (r Role) HasPermission(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
