package transport

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=8,max=32"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=20"`
	Password string  `json:"password" validate:"required,min=8,max=32"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	FIO      *string `json:"fio"      validate:"omitnil,min=5,max=50"`
	RoleID   *uint   `json:"role_id"  validate:"omitnil,min=1"`
}

type PatchUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=2,max=20"`
	Password *string `json:"password" validate:"omitnil,min=8,max=32"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	FIO      *string `json:"fio"      validate:"omitnil,min=5,max=50"`
}

func (r PatchUserRequest) Empty() bool {
	return r.Username == nil && r.Password == nil && r.Email == nil && r.FIO == nil
}

type CreateRoleRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=20"`
	Description *string `json:"description" validate:"omitnil,min=2,max=100"`
}

type PatchRoleRequest struct {
	Name        *string `json:"name"        validate:"omitnil,min=2,max=20"`
	Description *string `json:"description" validate:"omitnil,min=2,max=100"`
}

func (r PatchRoleRequest) Empty() bool {
	return r.Name == nil && r.Description == nil
}

type CreateSummaryRequest struct {
	Title       string  `json:"title"       validate:"required,min=2,max=50"`
	Description *string `json:"description" validate:"omitnil,min=10,max=1000"`
	UserID      *uint   `json:"user_id"     validate:"omitnil,min=1"`
}

type PatchSummaryRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=2,max=50"`
	Description *string `json:"description" validate:"omitnil,min=10,max=1000"`
}

func (r PatchSummaryRequest) Empty() bool {
	return r.Title == nil && r.Description == nil
}

type CreateCommentRequest struct {
	Text      string `json:"text"       validate:"required,min=1,max=360"`
	SummaryID uint   `json:"summary_id" validate:"required,min=1"`
	UserID    *uint  `json:"user_id"    validate:"omitnil,min=1"`
}

type PatchCommentRequest struct {
	Text *string `json:"text" validate:"omitnil,min=1,max=360"`
}

func (r PatchCommentRequest) Empty() bool {
	return r.Text == nil
}

type ListQuery struct {
	Limit *int `query:"limit" validate:"omitnil,min=1"`
}

type SearchQuery struct {
	Q     string `query:"q"     validate:"required,min=1,max=100"`
	Limit *int   `query:"limit" validate:"omitnil,min=1"`
}
