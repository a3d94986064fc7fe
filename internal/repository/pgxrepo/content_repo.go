package pgxrepo

import (
	"context"

	"showcase-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type contentRepository struct {
	db DBTX
}

func NewContentRepository(db DBTX) domain.ContentRepository {
	return &contentRepository{db: db}
}

// listAll runs a select over table and scans each row with scan.
func listAll[T any](ctx context.Context, db DBTX, op, table string, columns []string, orderBy string, scan func(pgx.Row) (T, error)) ([]T, error) {
	sql, args, err := psql.Select(columns...).From(table).OrderBy(orderBy).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, item)
	}
	return out, mapError(op, rows.Err())
}

func (r *contentRepository) ListSocialIcons(ctx context.Context) ([]domain.SocialMediaIcon, error) {
	return listAll(ctx, querier(ctx, r.db), "list social icons", tableSocialMediaIcons,
		[]string{"id", "name", "icon_url", "link_url", "created_at"}, "id ASC",
		func(row pgx.Row) (domain.SocialMediaIcon, error) {
			var s domain.SocialMediaIcon
			err := row.Scan(&s.ID, &s.Name, &s.IconURL, &s.LinkURL, &s.CreatedAt)
			return s, err
		})
}

func (r *contentRepository) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return listAll(ctx, querier(ctx, r.db), "list videos", tableVideoPage,
		[]string{"id", "title", "video_url", "link_url", "created_at"}, "created_at DESC",
		func(row pgx.Row) (domain.Video, error) {
			var v domain.Video
			err := row.Scan(&v.ID, &v.Title, &v.VideoURL, &v.LinkURL, &v.CreatedAt)
			return v, err
		})
}

func (r *contentRepository) ListAboutEntries(ctx context.Context) ([]domain.AboutEntry, error) {
	return listAll(ctx, querier(ctx, r.db), "list about entries", tableAboutPage,
		[]string{"id", "title", "content", "image_url", "created_at"}, "id ASC",
		func(row pgx.Row) (domain.AboutEntry, error) {
			var a domain.AboutEntry
			err := row.Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.CreatedAt)
			return a, err
		})
}
