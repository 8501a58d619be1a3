package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// TeamService manages the flat team list tickets are assigned to.
type TeamService struct {
	store store.TabularStore
}

// NewTeamService constructs the service.
func NewTeamService(tabular store.TabularStore) *TeamService {
	return &TeamService{store: tabular}
}

// Add appends a team. Names are unique case-insensitively.
func (s *TeamService) Add(ctx context.Context, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("team name is required", nil)
	}
	teams, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		if strings.EqualFold(team.Name, name) {
			return nil, util.NewConflict("team already exists", map[string]any{"name": name})
		}
	}
	if err := s.store.AppendRow(ctx, domain.SheetTeams, []string{name}); err != nil {
		return nil, err
	}
	return &domain.Team{Name: name}, nil
}

// List returns every team in storage order.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.store.ReadRange(ctx, domain.SheetTeams, 2, 0, 1)
	if err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(rows))
	for _, row := range rows {
		if name := strings.TrimSpace(row[0]); name != "" {
			teams = append(teams, domain.Team{Name: name})
		}
	}
	return teams, nil
}

// Delete removes a team by exact name.
func (s *TeamService) Delete(ctx context.Context, name string) error {
	rowNum, err := s.store.FindRow(ctx, domain.SheetTeams, 1, strings.TrimSpace(name))
	if errors.Is(err, store.ErrRowNotFound) {
		return util.NewNotFound("team", map[string]any{"name": name})
	}
	if err != nil {
		return err
	}
	return s.store.DeleteRow(ctx, domain.SheetTeams, rowNum)
}
