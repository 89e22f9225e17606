package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFromSchema_EmptyRows(t *testing.T) {
	n, err := CopyFromSchema(context.TODO(), nil, "gis_clip", "dallas_roads", []string{"a"}, [][]any{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFromSchema_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"gis_clip", "dallas_roads"}, []string{"linearid", "fullname"}).WillReturnResult(3)

	rows := [][]any{{"110001", "Main St"}, {"110002", "Elm St"}, {"110003", "Oak St"}}
	n, err := CopyFromSchema(context.Background(), mock, "gis_clip", "dallas_roads", []string{"linearid", "fullname"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromSchema_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"gis_clip", "dallas_roads"}, []string{"linearid"}).WillReturnError(fmt.Errorf("permission denied"))

	rows := [][]any{{"110001"}}
	_, err = CopyFromSchema(context.Background(), mock, "gis_clip", "dallas_roads", []string{"linearid"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO gis_clip.dallas_roads")
	assert.NoError(t, mock.ExpectationsWereMet())
}
