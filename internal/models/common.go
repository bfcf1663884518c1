package models

// UserRole represents the roles resolved by the upstream auth layer.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleCounselor  UserRole = "COUNSELOR"
	RoleTeacher    UserRole = "TEACHER"
)

// Actor identifies the already-authorized caller of an operation.
type Actor struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// ActorFromClaims maps token claims onto an Actor.
func ActorFromClaims(claims *JWTClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{ID: claims.UserID, Name: claims.FullName, Role: claims.Role}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// NormalizePage clamps limit/offset into the accepted range.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
