package model

import "github.com/google/uuid"

type Role string

const (
	RoleResident Role = "resident"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

type AdminRole string

const (
	AdminRoleValidator  AdminRole = "validator"
	AdminRoleSupervisor AdminRole = "supervisor"
	AdminRoleWarden     AdminRole = "warden"
	AdminRoleDean       AdminRole = "dean"
)

// Principal is the resolved identity behind a request. It is built once by the
// auth middleware and passed explicitly into every service call; nothing below
// the HTTP layer reads ambient identity.
type Principal struct {
	UserID    uuid.UUID
	Role      Role
	AdminRole AdminRole
	Hostel    string
}

func (p Principal) IsResident() bool {
	return p.Role == RoleResident
}

func (p Principal) IsWorker() bool {
	return p.Role == RoleWorker
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsValidator() bool {
	return p.IsAdmin() && p.AdminRole == AdminRoleValidator
}

func (p Principal) IsSupervisor() bool {
	return p.IsAdmin() && p.AdminRole == AdminRoleSupervisor
}

func (p Principal) IsWarden() bool {
	return p.IsAdmin() && p.AdminRole == AdminRoleWarden
}

func (p Principal) IsDean() bool {
	return p.IsAdmin() && p.AdminRole == AdminRoleDean
}
