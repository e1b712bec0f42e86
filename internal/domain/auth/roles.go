package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	PermCyclesRead    = "cycles.read"
	PermCyclesWrite   = "cycles.write"
	PermReviewsRead   = "reviews.read"
	PermReviewsSubmit = "reviews.submit"
	PermKRARead       = "kras.read"
	PermKRAWrite      = "kras.write"
	PermReportsRead   = "reports.read"
	PermOrgRead       = "org.read"
	PermSystemAdmin   = "admin.system"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermCyclesRead,
		PermReviewsRead,
		PermReviewsSubmit,
		PermKRARead,
		PermOrgRead,
	},
	RoleManager: {
		PermCyclesRead,
		PermReviewsRead,
		PermReviewsSubmit,
		PermKRARead,
		PermReportsRead,
		PermOrgRead,
	},
	RoleHR: {
		PermCyclesRead,
		PermCyclesWrite,
		PermReviewsRead,
		PermReviewsSubmit,
		PermKRARead,
		PermKRAWrite,
		PermReportsRead,
		PermOrgRead,
	},
	RoleAdmin: {
		PermCyclesRead,
		PermCyclesWrite,
		PermReviewsRead,
		PermReviewsSubmit,
		PermKRARead,
		PermKRAWrite,
		PermReportsRead,
		PermOrgRead,
		PermSystemAdmin,
	},
}

func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
