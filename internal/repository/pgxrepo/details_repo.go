package pgxrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"showcase-backend/internal/domain"
	"showcase-backend/pkg/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var detailsColumns = []string{
	"id",
	"product_id",
	"problem_statement",
	"target_audience",
	"solution_description",
	"technical_details",
	"future_roadmap",
	"development_challenges",
	"COALESCE(key_features, '{}')",
	"created_at",
	"updated_at",
}

var detailsWriteColumns = []string{
	"problem_statement",
	"target_audience",
	"solution_description",
	"technical_details",
	"future_roadmap",
	"development_challenges",
	"key_features",
}

// Stored procedures that own details writes when the store provides them,
// with the argument count each is called with. Calls pass untyped
// placeholders, so the server resolves them by name and arity.
var (
	detailsProcedures    = []string{"get_product_details", "insert_product_details", "update_product_details", "delete_product_details"}
	detailsProcedureArgs = []int32{1, int32(1 + len(detailsWriteColumns)), int32(1 + len(detailsWriteColumns)), 1}
)

const detailsProbeSQL = `SELECT count(DISTINCT p.proname) FROM pg_proc p
JOIN unnest($1::text[], $2::int[]) AS want(name, nargs)
ON p.proname = want.name AND p.pronargs = want.nargs`

const (
	procUnknown int32 = iota
	procAvailable
	procMissing
)

type detailsRepository struct {
	db    DBTX
	procs atomic.Int32
}

func NewDetailsRepository(db DBTX) domain.DetailsRepository {
	return &detailsRepository{db: db}
}

func scanDetails(row pgx.Row) (*domain.ProductDetails, error) {
	var d domain.ProductDetails
	err := row.Scan(
		&d.ID,
		&d.ProductID,
		&d.ProblemStatement,
		&d.TargetAudience,
		&d.SolutionDescription,
		&d.TechnicalDetails,
		&d.FutureRoadmap,
		&d.DevelopmentChallenges,
		&d.KeyFeatures,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func detailsValues(in domain.DetailsInput) []any {
	features := in.KeyFeatures
	if features == nil {
		features = []string{}
	}
	return []any{
		in.ProblemStatement,
		in.TargetAudience,
		in.SolutionDescription,
		in.TechnicalDetails,
		in.FutureRoadmap,
		in.DevelopmentChallenges,
		features,
	}
}

// proceduresAvailable reports whether the details procedures exist with the
// arity they are called with. The probe runs outside any caller transaction so
// a failure cannot abort it. A failed probe is not remembered and counts as
// available; a missing procedure is caught again on call.
func (r *detailsRepository) proceduresAvailable(ctx context.Context) bool {
	switch r.procs.Load() {
	case procAvailable:
		return true
	case procMissing:
		return false
	}

	var n int64
	err := r.db.QueryRow(ctx, detailsProbeSQL, detailsProcedures, detailsProcedureArgs).Scan(&n)
	if err != nil {
		logger.Debug().Err(err).Msg("Details procedure probe failed")
		return true
	}

	if n == int64(len(detailsProcedures)) {
		r.procs.Store(procAvailable)
		return true
	}
	r.procs.Store(procMissing)
	logger.Info().Int64("found", n).Msg("Details procedures unavailable, using direct table writes")
	return false
}

// withProcedure runs proc when the procedures exist and falls back to table
// when they do not, or when the store reports the function as undefined.
// Inside a transaction proc runs under a savepoint, so an undefined function
// does not abort the transaction before the fallback.
func (r *detailsRepository) withProcedure(ctx context.Context, proc, table func(db DBTX) error) error {
	db := querier(ctx, r.db)
	if !r.proceduresAvailable(ctx) {
		return table(db)
	}

	err := r.callProcedure(ctx, proc)
	if pgCode(err) != pgUndefinedFunction {
		return err
	}
	r.procs.Store(procMissing)
	logger.Warn().Err(err).Msg("Details procedure missing, falling back to direct table writes")
	return table(db)
}

func (r *detailsRepository) callProcedure(ctx context.Context, proc func(db DBTX) error) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return proc(r.db)
	}

	savepoint, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	if err := proc(savepoint); err != nil {
		if rbErr := savepoint.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return savepoint.Commit(ctx)
}

func procCall(name string, argc int) string {
	placeholders := make([]string, argc)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("SELECT %s FROM %s(%s)", strings.Join(detailsColumns, ", "), name, strings.Join(placeholders, ", "))
}

func (r *detailsRepository) FindDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	var details *domain.ProductDetails
	err := r.withProcedure(ctx,
		func(db DBTX) (err error) {
			details, err = scanDetails(db.QueryRow(ctx, procCall("get_product_details", 1), productID))
			return err
		},
		func(db DBTX) error {
			sql, args, err := psql.Select(detailsColumns...).
				From(tableProductDetails).
				Where(sq.Eq{"product_id": productID}).
				Limit(1).
				ToSql()
			if err != nil {
				return err
			}
			details, err = scanDetails(db.QueryRow(ctx, sql, args...))
			return err
		},
	)
	if err != nil {
		return nil, mapError("find details", err)
	}
	return details, nil
}

// CreateDetails inserts a details row; omitted fields stay NULL.
func (r *detailsRepository) CreateDetails(ctx context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	values := append([]any{productID}, detailsValues(in)...)

	var details *domain.ProductDetails
	err := r.withProcedure(ctx,
		func(db DBTX) (err error) {
			details, err = scanDetails(db.QueryRow(ctx, procCall("insert_product_details", len(values)), values...))
			return err
		},
		func(db DBTX) error {
			sql, args, err := psql.Insert(tableProductDetails).
				Columns(append([]string{"product_id"}, detailsWriteColumns...)...).
				Values(values...).
				Suffix("RETURNING " + strings.Join(detailsColumns, ", ")).
				ToSql()
			if err != nil {
				return err
			}
			details, err = scanDetails(db.QueryRow(ctx, sql, args...))
			return err
		},
	)
	if err != nil {
		return nil, mapError("create details", err)
	}
	return details, nil
}

// UpdateDetails replaces every narrative field and the key features of the
// product's details row. Nil fields are written as NULL.
func (r *detailsRepository) UpdateDetails(ctx context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	values := detailsValues(in)

	var details *domain.ProductDetails
	err := r.withProcedure(ctx,
		func(db DBTX) (err error) {
			args := append([]any{productID}, values...)
			details, err = scanDetails(db.QueryRow(ctx, procCall("update_product_details", len(args)), args...))
			return err
		},
		func(db DBTX) error {
			query := psql.Update(tableProductDetails).
				Where(sq.Eq{"product_id": productID}).
				Set("updated_at", sq.Expr("now()")).
				Suffix("RETURNING " + strings.Join(detailsColumns, ", "))
			for i, col := range detailsWriteColumns {
				query = query.Set(col, values[i])
			}
			sql, args, err := query.ToSql()
			if err != nil {
				return err
			}
			details, err = scanDetails(db.QueryRow(ctx, sql, args...))
			return err
		},
	)
	if err != nil {
		return nil, mapError("update details", err)
	}
	return details, nil
}

// UpsertDetails writes the details row in one statement with full-replace
// semantics. It returns domain.ErrUnsupported when writes must go through the
// stored procedures or when the table has no unique constraint on product_id.
func (r *detailsRepository) UpsertDetails(ctx context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	if r.proceduresAvailable(ctx) {
		return nil, fmt.Errorf("upsert details: procedures own writes: %w", domain.ErrUnsupported)
	}

	updates := make([]string, 0, len(detailsWriteColumns)+1)
	for _, col := range detailsWriteColumns {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	updates = append(updates, "updated_at = now()")

	sql, args, err := psql.Insert(tableProductDetails).
		Columns(append([]string{"product_id"}, detailsWriteColumns...)...).
		Values(append([]any{productID}, detailsValues(in)...)...).
		Suffix("ON CONFLICT (product_id) DO UPDATE SET " + strings.Join(updates, ", ") +
			" RETURNING " + strings.Join(detailsColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	details, err := scanDetails(querier(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if pgCode(err) == pgNoConflictTarget {
			return nil, fmt.Errorf("upsert details: %w: %w", domain.ErrUnsupported, err)
		}
		return nil, mapError("upsert details", err)
	}
	return details, nil
}

func (r *detailsRepository) DeleteDetails(ctx context.Context, productID int64) error {
	err := r.withProcedure(ctx,
		func(db DBTX) error {
			_, err := db.Exec(ctx, "SELECT delete_product_details($1)", productID)
			return err
		},
		func(db DBTX) error {
			sql, args, err := psql.Delete(tableProductDetails).
				Where(sq.Eq{"product_id": productID}).
				ToSql()
			if err != nil {
				return err
			}
			_, err = db.Exec(ctx, sql, args...)
			return err
		},
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return mapError("delete details", err)
	}
	return nil
}
