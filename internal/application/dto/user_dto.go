package dto

import "time"

// CreateUserRequest entrada para crear un usuario. Role: Admin, Manager o el nombre de un almacén.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required"`
}

// DeleteUserRequest body de DELETE /api/users/:id.
type DeleteUserRequest struct {
	AdminCode string `json:"admin_code"`
}

// UserResponse usuario sin credenciales.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessLogResponse entrada de la bitácora de accesos.
type AccessLogResponse struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
