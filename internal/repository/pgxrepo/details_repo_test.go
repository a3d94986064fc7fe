package pgxrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"showcase-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detailsCols = []string{
	"id", "product_id", "problem_statement", "target_audience", "solution_description",
	"technical_details", "future_roadmap", "development_challenges", "key_features", "created_at", "updated_at",
}

const probeSQL = `SELECT count\(DISTINCT p\.proname\) FROM pg_proc p`

func expectProbe(mock pgxmock.PgxPoolIface, found int64) {
	mock.ExpectQuery(probeSQL).
		WithArgs(detailsProcedures, detailsProcedureArgs).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(found))
}

func detailsRows(productID int64, problem string, features []string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(detailsCols).
		AddRow(int64(1), productID, &problem, nil, nil, nil, nil, nil, features, now, now)
}

func strPtr(s string) *string { return &s }

func TestDetailsRepository_FindDetails(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "via procedure",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
				mock.ExpectQuery(`FROM get_product_details\(\$1\)`).
					WithArgs(int64(7)).
					WillReturnRows(detailsRows(7, "too many tabs", []string{"sync"}))
			},
		},
		{
			name: "via table when procedures are missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 0)
				mock.ExpectQuery(`FROM product_details WHERE product_id = \$1 LIMIT 1`).
					WithArgs(int64(7)).
					WillReturnRows(detailsRows(7, "too many tabs", []string{"sync"}))
			},
		},
		{
			name: "falls back when the procedure is undefined",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
				mock.ExpectQuery(`FROM get_product_details`).
					WithArgs(int64(7)).
					WillReturnError(&pgconn.PgError{Code: "42883"})
				mock.ExpectQuery(`FROM product_details`).
					WithArgs(int64(7)).
					WillReturnRows(detailsRows(7, "too many tabs", []string{"sync"}))
			},
		},
		{
			name: "probe failure assumes procedures",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(probeSQL).WillReturnError(errors.New("permission denied for pg_proc"))
				mock.ExpectQuery(`FROM get_product_details`).
					WithArgs(int64(7)).
					WillReturnRows(detailsRows(7, "too many tabs", []string{"sync"}))
			},
		},
		{
			name: "absent",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
				mock.ExpectQuery(`FROM get_product_details`).
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(detailsCols))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			d, err := NewDetailsRepository(mock).FindDetails(context.Background(), 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), d.ProductID)
			assert.Equal(t, "too many tabs", *d.ProblemStatement)
			assert.Nil(t, d.TargetAudience)
			assert.Equal(t, []string{"sync"}, d.KeyFeatures)
		})
	}
}

func TestDetailsRepository_ProbeIsRemembered(t *testing.T) {
	mock := newMock(t)
	expectProbe(mock, 4)
	mock.ExpectQuery(`FROM get_product_details`).
		WithArgs(int64(1)).
		WillReturnRows(detailsRows(1, "a", nil))
	mock.ExpectQuery(`FROM get_product_details`).
		WithArgs(int64(2)).
		WillReturnRows(detailsRows(2, "b", nil))

	repo := NewDetailsRepository(mock)
	_, err := repo.FindDetails(context.Background(), 1)
	require.NoError(t, err)
	_, err = repo.FindDetails(context.Background(), 2)
	require.NoError(t, err)
}

func TestDetailsRepository_UpdateDetails_FullReplaceViaTable(t *testing.T) {
	mock := newMock(t)
	expectProbe(mock, 0)
	mock.ExpectQuery(`UPDATE product_details SET updated_at = now\(\), problem_statement = \$1, target_audience = \$2, solution_description = \$3, technical_details = \$4, future_roadmap = \$5, development_challenges = \$6, key_features = \$7 WHERE product_id = \$8`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), []string{}, int64(7)).
		WillReturnRows(detailsRows(7, "new problem", []string{}))

	d, err := NewDetailsRepository(mock).UpdateDetails(context.Background(), 7, domain.DetailsInput{
		ProblemStatement: strPtr("new problem"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new problem", *d.ProblemStatement)
}

func TestDetailsRepository_CreateDetails_ViaProcedure(t *testing.T) {
	mock := newMock(t)
	expectProbe(mock, 4)
	mock.ExpectQuery(`FROM insert_product_details\(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), []string{"a", "b"}).
		WillReturnRows(detailsRows(7, "p", []string{"a", "b"}))

	d, err := NewDetailsRepository(mock).CreateDetails(context.Background(), 7, domain.DetailsInput{
		ProblemStatement: strPtr("p"),
		KeyFeatures:      []string{"a", "b"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.KeyFeatures)
}

func TestDetailsRepository_UpsertDetails(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "procedures own writes",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
			},
			wantErr: domain.ErrUnsupported,
		},
		{
			name: "on conflict update",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 0)
				mock.ExpectQuery(`INSERT INTO product_details (.+) ON CONFLICT \(product_id\) DO UPDATE SET problem_statement = EXCLUDED.problem_statement`).
					WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(detailsRows(7, "p", []string{}))
			},
		},
		{
			name: "no unique constraint",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 0)
				mock.ExpectQuery(`ON CONFLICT`).
					WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "42P10"})
			},
			wantErr: domain.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			d, err := NewDetailsRepository(mock).UpsertDetails(context.Background(), 7, domain.DetailsInput{ProblemStatement: strPtr("p")})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), d.ProductID)
		})
	}
}

func TestDetailsRepository_DeleteDetails(t *testing.T) {
	t.Run("procedure", func(t *testing.T) {
		mock := newMock(t)
		expectProbe(mock, 4)
		mock.ExpectExec(`SELECT delete_product_details\(\$1\)`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))

		require.NoError(t, NewDetailsRepository(mock).DeleteDetails(context.Background(), 7))
	})

	t.Run("table", func(t *testing.T) {
		mock := newMock(t)
		expectProbe(mock, 1)
		mock.ExpectExec(`DELETE FROM product_details WHERE product_id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.NoError(t, NewDetailsRepository(mock).DeleteDetails(context.Background(), 7))
	})
}

func TestDetailsRepository_DeleteDetails_InTransaction(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock pgxmock.PgxPoolIface)
	}{
		{
			name: "procedure runs under a released savepoint",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT delete_product_details\(\$1\)`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("SELECT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "undefined procedure rolls back to the savepoint before the table delete",
			setup: func(mock pgxmock.PgxPoolIface) {
				expectProbe(mock, 4)
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT delete_product_details\(\$1\)`).
					WithArgs(int64(7)).
					WillReturnError(&pgconn.PgError{Code: "42883"})
				mock.ExpectRollback()
				mock.ExpectExec(`DELETE FROM product_details WHERE product_id = \$1`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "failed probe leaves the transaction usable",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(probeSQL).WillReturnError(errors.New("permission denied for pg_proc"))
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT delete_product_details\(\$1\)`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("SELECT", 1))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectBegin()
			tt.setup(mock)
			mock.ExpectCommit()

			repo := NewDetailsRepository(mock)
			err := NewTransactionManager(mock).Do(context.Background(), func(ctx context.Context) error {
				return repo.DeleteDetails(ctx, 7)
			})

			require.NoError(t, err)
		})
	}
}
