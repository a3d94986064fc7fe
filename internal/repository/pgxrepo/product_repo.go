package pgxrepo

import (
	"context"
	"strings"

	"showcase-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var productColumns = []string{
	"id",
	"title",
	"COALESCE(description, '')",
	"COALESCE(thumbnail_url, '')",
	"video_url",
	"product_link",
	"source_code_link",
	"category_id",
	"COALESCE(tags, '{}')",
	"created_at",
	"updated_at",
}

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) domain.ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.ThumbnailURL,
		&p.VideoURL,
		&p.ProductLink,
		&p.SourceCodeLink,
		&p.CategoryID,
		&p.Tags,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products newest first. CategoryID and IDs are OR-ed:
// a product matches when its primary category is CategoryID or its id is in IDs.
func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := psql.Select(productColumns...).
		From(tableProducts).
		OrderBy("created_at DESC")

	var match sq.Or
	if filter.CategoryID != nil {
		match = append(match, sq.Eq{"category_id": *filter.CategoryID})
	}
	if len(filter.IDs) > 0 {
		match = append(match, sq.Eq{"id": filter.IDs})
	}
	if len(match) > 0 {
		query = query.Where(match)
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := querier(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		products = append(products, *p)
	}
	return products, mapError("list products", rows.Err())
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	sql, args, err := psql.Select(productColumns...).
		From(tableProducts).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(querier(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError("get product", err)
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	sql, args, err := psql.Insert(tableProducts).
		Columns("title", "description", "thumbnail_url", "video_url", "product_link", "source_code_link", "category_id", "tags").
		Values(strings.TrimSpace(in.Title), in.Description, in.ThumbnailURL, in.VideoURL, in.ProductLink, in.SourceCodeLink, in.CategoryID, tags).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(querier(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError("create product", err)
	}
	return p, nil
}

// UpdateProduct writes only the fields set in patch and bumps updated_at.
func (r *productRepository) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	query := psql.Update(tableProducts).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productColumns, ", "))

	if patch.Title != nil {
		query = query.Set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		query = query.Set("description", *patch.Description)
	}
	if patch.ThumbnailURL != nil {
		query = query.Set("thumbnail_url", *patch.ThumbnailURL)
	}
	if patch.VideoURL != nil {
		query = query.Set("video_url", *patch.VideoURL)
	}
	if patch.ProductLink != nil {
		query = query.Set("product_link", *patch.ProductLink)
	}
	if patch.SourceCodeLink != nil {
		query = query.Set("source_code_link", *patch.SourceCodeLink)
	}
	if patch.CategoryID != nil {
		query = query.Set("category_id", *patch.CategoryID)
	}
	if patch.ClearCategory {
		query = query.Set("category_id", nil)
	}
	if patch.Tags != nil {
		query = query.Set("tags", *patch.Tags)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(querier(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError("update product", err)
	}
	return p, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete(tableProducts).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := querier(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return mapError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError("delete product", pgx.ErrNoRows)
	}
	return nil
}
