package domain

import "context"

type AdminUser struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type AdminRepository interface {
	CreateAdmin(user *AdminUser) (*AdminUser, error)
	GetAdminByUsername(username string) (*AdminUser, error)
	GetAdminByID(id int) (*AdminUser, error)
}

// AuthUseCase verifies administrator credentials and manages the opaque
// session tokens that authorize every admin route.
type AuthUseCase interface {
	// Login returns the admin and a fresh session token. A missing user and a
	// wrong password are both ErrUnauthorized, indistinguishable to callers.
	Login(ctx context.Context, username, password string) (*AdminUser, string, error)
	Logout(ctx context.Context, token string) error
	// CurrentUser resolves the identity bound to a live session token or
	// fails with ErrUnauthorized.
	CurrentUser(ctx context.Context, token string) (*AdminUser, error)
}
