package handler

// ErrorResponse is the error envelope returned by every endpoint. Details is
// only populated for unexpected failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type registerResponse struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// --- Users ---

// listedUserResponse carries the decoded password; it is only served to admins.
type listedUserResponse struct {
	ID       string `json:"_id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type userResponse struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updatedUserResponse struct {
	Message string              `json:"message"`
	User    updatedUserSnapshot `json:"user"`
}

type updatedUserSnapshot struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}
