package transport

import (
	"time"

	"github.com/Skotchmaster/summaries/internal/models"
)

const TimeLayout = "15:04:05 02.01.2006 MST"

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

type RoleBrief struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UserBrief struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	FIO      *string `json:"fio"`
}

type SummaryBrief struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CommentBrief struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UserResponse struct {
	ID        uint           `json:"id"`
	Username  string         `json:"username"`
	Email     *string        `json:"email"`
	FIO       *string        `json:"fio"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Role      RoleBrief      `json:"role"`
	Summaries []SummaryBrief `json:"summaries"`
	Comments  []CommentBrief `json:"comments"`
}

type RoleResponse struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Users       []UserBrief `json:"users"`
}

type CommentInSummary struct {
	CommentBrief
	User UserBrief `json:"user"`
}

type SummaryResponse struct {
	SummaryBrief
	User     UserBrief          `json:"user"`
	Comments []CommentInSummary `json:"comments"`
}

type SummaryParent struct {
	SummaryBrief
	User UserBrief `json:"user"`
}

type CommentResponse struct {
	CommentBrief
	User    UserBrief     `json:"user"`
	Summary SummaryParent `json:"summary"`
}

func userBrief(u models.User) UserBrief {
	return UserBrief{ID: u.ID, Username: u.Username, Email: u.Email, FIO: u.FIO}
}

func summaryBrief(s models.Summary) SummaryBrief {
	return SummaryBrief{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

func commentBrief(c models.Comment) CommentBrief {
	return CommentBrief{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func NewUserResponse(u *models.User) UserResponse {
	out := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FIO:       u.FIO,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
		Role:      RoleBrief{Name: u.Role.Name, Description: u.Role.Description},
		Summaries: make([]SummaryBrief, 0, len(u.Summaries)),
		Comments:  make([]CommentBrief, 0, len(u.Comments)),
	}
	for _, s := range u.Summaries {
		out.Summaries = append(out.Summaries, summaryBrief(s))
	}
	for _, c := range u.Comments {
		out.Comments = append(out.Comments, commentBrief(c))
	}
	return out
}

func NewUserList(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

func NewRoleResponse(r *models.Role) RoleResponse {
	out := RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Users:       make([]UserBrief, 0, len(r.Users)),
	}
	for _, u := range r.Users {
		out.Users = append(out.Users, userBrief(u))
	}
	return out
}

func NewRoleList(roles []models.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, NewRoleResponse(&roles[i]))
	}
	return out
}

// NewSummaryResponse expects Comments to be loaded; comment authors are
// rendered only when their User association was preloaded.
func NewSummaryResponse(s *models.Summary) SummaryResponse {
	out := SummaryResponse{
		SummaryBrief: summaryBrief(*s),
		User:         userBrief(s.User),
		Comments:     make([]CommentInSummary, 0, len(s.Comments)),
	}
	for _, c := range s.Comments {
		out.Comments = append(out.Comments, CommentInSummary{
			CommentBrief: commentBrief(c),
			User:         userBrief(c.User),
		})
	}
	return out
}

func NewSummaryList(summaries []models.Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(summaries))
	for i := range summaries {
		out = append(out, NewSummaryResponse(&summaries[i]))
	}
	return out
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		CommentBrief: commentBrief(*c),
		User:         userBrief(c.User),
		Summary: SummaryParent{
			SummaryBrief: summaryBrief(c.Summary),
			User:         userBrief(c.Summary.User),
		},
	}
}

func NewCommentList(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
