package domain

import (
	"context"
	"time"
)

// SocialMediaIcon is a footer link.
type SocialMediaIcon struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IconURL   string    `json:"icon_url"`
	LinkURL   *string   `json:"link_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Video is an entry of the video page.
type Video struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"video_url"`
	LinkURL   *string   `json:"link_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AboutEntry is a block of the about page.
type AboutEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type ContentRepository interface {
	ListSocialIcons(ctx context.Context) ([]SocialMediaIcon, error)
	ListVideos(ctx context.Context) ([]Video, error)
	ListAboutEntries(ctx context.Context) ([]AboutEntry, error)
}
