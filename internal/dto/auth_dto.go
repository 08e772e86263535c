package dto

type RegisterDTO struct {
	StudentID string `json:"student_id" binding:"required,max=32"`
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponseDTO carries the access token; the refresh token travels only
// in the HTTP-only cookie.
type TokenResponseDTO struct {
	AccessToken string     `json:"access_token"`
	User        ProfileDTO `json:"user"`
}

type ProfileDTO struct {
	ID        uint   `json:"id"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
}

type ProfileUpdateDTO struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6"`
}
