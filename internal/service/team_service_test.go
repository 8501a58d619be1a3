package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

func newTeamService() *TeamService {
	return NewTeamService(store.NewMemoryStore(domain.SheetHeaders()))
}

func TestTeamAddListDelete(t *testing.T) {
	teams := newTeamService()

	_, err := teams.Add(context.Background(), "Facilities")
	require.NoError(t, err)
	_, err = teams.Add(context.Background(), "  IT  ")
	require.NoError(t, err)

	list, err := teams.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Team{{Name: "Facilities"}, {Name: "IT"}}, list)

	require.NoError(t, teams.Delete(context.Background(), "Facilities"))
	list, err = teams.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Team{{Name: "IT"}}, list)
}

func TestTeamAddDuplicate(t *testing.T) {
	teams := newTeamService()
	_, err := teams.Add(context.Background(), "Facilities")
	require.NoError(t, err)

	_, err = teams.Add(context.Background(), "facilities")
	require.Equal(t, "CONFLICT", toCode(err))

	_, err = teams.Add(context.Background(), "   ")
	require.Equal(t, "VALIDATION_FAILED", toCode(err))
}

func TestTeamDeleteUnknown(t *testing.T) {
	teams := newTeamService()
	require.Equal(t, "NOT_FOUND", toCode(teams.Delete(context.Background(), "Ghost")))
}
