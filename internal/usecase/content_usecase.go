package usecase

import (
	"context"

	"showcase-backend/config"
	"showcase-backend/internal/domain"
	"showcase-backend/internal/query"
)

type ContentUsecase interface {
	ListSocialIcons(ctx context.Context) ([]domain.SocialMediaIcon, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListAboutEntries(ctx context.Context) ([]domain.AboutEntry, error)
}

type contentUsecase struct {
	repo    domain.ContentRepository
	queries *query.Client
	cfg     *config.Config
}

func NewContentUsecase(r domain.ContentRepository, queries *query.Client, cfg *config.Config) ContentUsecase {
	return &contentUsecase{repo: r, queries: queries, cfg: cfg}
}

func (u *contentUsecase) ListSocialIcons(ctx context.Context) ([]domain.SocialMediaIcon, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceSocialIcons), u.cfg.CacheSocialTTL, u.repo.ListSocialIcons)
}

// ListVideos uses a short stale time; the video page changes more often than the rest.
func (u *contentUsecase) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceVideos), u.cfg.CacheVideosTTL, u.repo.ListVideos)
}

func (u *contentUsecase) ListAboutEntries(ctx context.Context) ([]domain.AboutEntry, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceAboutPage), u.cfg.CacheAboutTTL, u.repo.ListAboutEntries)
}
