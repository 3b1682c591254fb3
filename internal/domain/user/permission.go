package user

type Permission string

const (
	// Attendance
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Administration
	PermissionScheduleManage Permission = "schedule.manage"
	PermissionSettingManage  Permission = "setting.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleStudent: {
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
	},
	RoleAdmin: {
		// Admins review attendance but never record their own
		PermissionAttendanceViewAll,
		PermissionScheduleManage,
		PermissionSettingManage,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
