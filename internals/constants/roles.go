package constants

import "fmt"

// Role dari klaim token upstream
const RoleSuperAdmin = "super_admin"

// Template pesan error role
const ErrOnlySuperAdminCanAccess = "Hanya super admin yang dapat mengakses %s"

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminCanAccess, feature)
}

var SuperAdminOnly = []string{RoleSuperAdmin}
