package service

import (
	"context"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/project/domain"
	userdomain "github.com/AlibekovAA/taskflow/backend/internal/user/domain"
)

// UserInfo is the display information shown for members and creators.
type UserInfo struct {
	ID        string `json:"_id"`
	Login     string `json:"login,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ProjectView is a project with member and creator ids resolved to users.
type ProjectView struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Members     []UserInfo     `json:"members"`
	CreatedBy   UserInfo       `json:"createdBy"`
	Groups      []domain.Group `json:"groups"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// views resolves every referenced user with a single directory lookup.
// Users that no longer resolve keep only their id.
func (s *Service) views(ctx context.Context, projects []domain.Project) ([]ProjectView, error) {
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.CreatedBy)
		ids = append(ids, p.Members...)
	}

	summaries := map[string]userdomain.Summary{}
	if len(ids) > 0 {
		var err error
		summaries, err = s.users.Summaries(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		members := make([]UserInfo, 0, len(p.Members))
		for _, id := range p.Members {
			members = append(members, userInfo(id, summaries))
		}
		groups := p.Groups
		if groups == nil {
			groups = []domain.Group{}
		}
		out = append(out, ProjectView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Members:     members,
			CreatedBy:   userInfo(p.CreatedBy, summaries),
			Groups:      groups,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return out, nil
}

func userInfo(id string, summaries map[string]userdomain.Summary) UserInfo {
	s, ok := summaries[id]
	if !ok {
		return UserInfo{ID: id}
	}
	return UserInfo{
		ID:        id,
		Login:     s.Login,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
