package dto

// CreateUserRequest represents a request to create a console account
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Role     string  `json:"role" binding:"omitempty,oneof=user admin"`
	FullName *string `json:"fullName" binding:"omitempty,max=255"`
}

// UpdateUserRoleRequest represents a role change
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}
