package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"lodgr/internal/data/entity"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPropertyRepo(t *testing.T) (PropertyRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPropertyRepository(mock, zap.NewNop()), mock
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"cabin", `%cabin%`},
		{"50%", `%50\%%`},
		{"lake_view", `%lake\_view%`},
		{`C:\path`, `%C:\\path%`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.text))
		})
	}
}

func TestPropertyRepo_FindAllFilters(t *testing.T) {
	repo, mock := newPropertyRepo(t)
	available := true
	location := "Bishoftu"
	search := "50%_off"

	// The search placeholder is shared by both ILIKE clauses.
	query := `SELECT ` + propertyColumns + ` FROM properties` +
		` WHERE available = $1 AND location = $2` +
		` AND (name ILIKE $3 ESCAPE '\' OR description ILIKE $3 ESCAPE '\')` +
		` ORDER BY created_at DESC LIMIT $4 OFFSET $5`

	mock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").
		WithArgs(true, "Bishoftu", `%50\%\_off%`, 10, 20).
		WillReturnRows(pgxmock.NewRows(strings.Split(propertyColumns, ", ")))
	mock.ExpectQuery("^" + regexp.QuoteMeta(`SELECT COUNT(*) FROM properties WHERE available = $1 AND location = $2 AND (name ILIKE $3`)).
		WithArgs(true, "Bishoftu", `%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	filter := entity.PropertyFilter{Available: &available, Location: &location, Search: &search}
	properties, err := repo.FindAll(context.Background(), filter, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, properties)

	total, err := repo.CountAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_FindAllWithoutFilters(t *testing.T) {
	repo, mock := newPropertyRepo(t)
	empty := ""

	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	mock.ExpectQuery("^"+regexp.QuoteMeta(query)+"$").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(strings.Split(propertyColumns, ", ")))

	_, err := repo.FindAll(context.Background(), entity.PropertyFilter{Search: &empty}, 10, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
