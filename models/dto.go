package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateArticleRequest deliberately carries no minimum length on Title: the
// 5-character floor is supposed to be enforced here and is not. Submitting a
// short title is one of the discoverable defects, so the gap stays open.
type CreateArticleRequest struct {
	Title    string          `json:"title" binding:"required,max=100"`
	Body     string          `json:"body" binding:"required,min=20,max=1000"`
	Category ArticleCategory `json:"category" binding:"required,oneof=Technology Science Health Business Entertainment"`
}

type UpdateArticleRequest struct {
	Title    *string          `json:"title,omitempty" binding:"omitempty,max=100"`
	Body     *string          `json:"body,omitempty" binding:"omitempty,min=20,max=1000"`
	Category *ArticleCategory `json:"category,omitempty" binding:"omitempty,oneof=Technology Science Health Business Entertainment"`
}

type PerformActionRequest struct {
	Action ActionType `json:"action" binding:"required"`
	Role   Role       `json:"role" binding:"required,oneof=author moderator guest"`
}

type RegisterDefectRequest struct {
	ID           string `json:"id" binding:"required"`
	Summary      string `json:"summary" binding:"required"`
	Reproduction string `json:"reproduction"`
}
