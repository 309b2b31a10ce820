package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoDataIsConsistent(t *testing.T) {
	emails := map[string]bool{}
	for _, s := range demoStudents {
		assert.False(t, emails[s.Email], "duplicate demo email %s", s.Email)
		emails[s.Email] = true
	}

	pairs := map[[2]int]bool{}
	for _, p := range demoEnrollments {
		assert.Less(t, p[0], len(demoStudents))
		assert.Less(t, p[1], len(demoCourses))
		assert.False(t, pairs[p], "duplicate demo enrollment %v", p)
		pairs[p] = true
	}
}

func TestCreateDemoData_BeginFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	_, err = CreateDemoData(context.Background(), mock)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDemoData_RollsBackOnLookupFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM students WHERE email = \\$1").
		WithArgs(demoStudents[0].Email).
		WillReturnError(errors.New("relation \"students\" does not exist"))
	mock.ExpectRollback()

	summary, err := CreateDemoData(context.Background(), mock)

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Zero(t, summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
