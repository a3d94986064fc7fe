package pgxrepo

import (
	"context"
	"strings"

	"showcase-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var categoryColumns = []string{"id", "name", "slug", "description", "created_at", "updated_at"}

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	sql, args, err := psql.Select(categoryColumns...).
		From(tableCategories).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querier(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapError("scan category", err)
		}
		categories = append(categories, *c)
	}
	return categories, mapError("list categories", rows.Err())
}

func (r *categoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	sql, args, err := psql.Select(categoryColumns...).
		From(tableCategories).
		Where(sq.Eq{"slug": strings.ToLower(strings.TrimSpace(slug))}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCategory(querier(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError("get category", err)
	}
	return c, nil
}

// CreateCategory inserts the category and fills in the stored id and timestamps.
func (r *categoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	sql, args, err := psql.Insert(tableCategories).
		Columns("name", "slug", "description").
		Values(category.Name, category.Slug, category.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	err = querier(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return mapError("create category", err)
}

// ListCategoryProductIDs returns which of productIDs are already linked to the category.
func (r *categoryRepository) ListCategoryProductIDs(ctx context.Context, categoryID int64, productIDs []int64) ([]int64, error) {
	query := psql.Select("product_id").
		From(tableProductCategory).
		Where(sq.Eq{"category_id": categoryID})
	if len(productIDs) > 0 {
		query = query.Where(sq.Eq{"product_id": productIDs})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querier(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list category products", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapError("scan category product", err)
		}
		ids = append(ids, id)
	}
	return ids, mapError("list category products", rows.Err())
}

func (r *categoryRepository) AddProductToCategory(ctx context.Context, productID, categoryID int64) error {
	sql, args, err := psql.Insert(tableProductCategory).
		Columns("product_id", "category_id").
		Values(productID, categoryID).
		ToSql()
	if err != nil {
		return err
	}

	_, err = querier(ctx, r.db).Exec(ctx, sql, args...)
	return mapError("add product to category", err)
}

func (r *categoryRepository) RemoveProductFromCategories(ctx context.Context, productID int64) error {
	sql, args, err := psql.Delete(tableProductCategory).
		Where(sq.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = querier(ctx, r.db).Exec(ctx, sql, args...)
	return mapError("remove product from categories", err)
}
