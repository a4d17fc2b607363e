package repositories

import (
	"time"

	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// FeedRepository assembles the personalized feed for a viewer
type FeedRepository interface {
	GetFeed(viewerID string, page, limit int) ([]models.FeedEntry, error)
}

type postgresFeedRepository struct {
	db *gorm.DB
}

func NewPostgresFeedRepository(db *gorm.DB) FeedRepository {
	return &postgresFeedRepository{db: db}
}

// feedRow is the flat scan target for the feed query; mapped into
// models.FeedEntry afterwards.
type feedRow struct {
	ID            string
	Content       string
	MediaURL      *string
	MediaType     *string
	AuthorID      string
	ParentTweetID *string
	CreatedAt     time.Time

	AuthorName     string
	AuthorUsername string
	AuthorAvatar   *string
	IsLiked        bool

	ParentID             *string
	ParentContent        *string
	ParentMediaURL       *string
	ParentMediaType      *string
	ParentAuthorID       *string
	ParentCreatedAt      *time.Time
	ParentAuthorName     *string
	ParentAuthorUsername *string
	ParentAuthorAvatar   *string
	ParentIsLiked        bool
}

// GetFeed returns the viewer's feed, newest first: the union of self-authored
// tweets and tweets by followed authors, each joined with its author, the
// viewer's like-state, and (for replies) the parent tweet with its author and
// like-state. The UNION keeps the candidate set duplicate-free even when a
// tweet qualifies both ways (self-follow).
func (r *postgresFeedRepository) GetFeed(viewerID string, page, limit int) ([]models.FeedEntry, error) {
	offset := (page - 1) * limit

	var rows []feedRow
	err := r.db.Raw(`
		SELECT
			t.id, t.content, t.media_url, t.media_type, t.author_id, t.parent_tweet_id, t.created_at,
			a.name AS author_name, a.username AS author_username, a.avatar AS author_avatar,
			l.id IS NOT NULL AS is_liked,
			p.id AS parent_id, p.content AS parent_content,
			p.media_url AS parent_media_url, p.media_type AS parent_media_type,
			p.author_id AS parent_author_id, p.created_at AS parent_created_at,
			pa.name AS parent_author_name, pa.username AS parent_author_username,
			pa.avatar AS parent_author_avatar,
			pl.id IS NOT NULL AS parent_is_liked
		FROM tweets t
		JOIN users a ON a.id = t.author_id
		LEFT JOIN likes l ON l.tweet_id = t.id AND l.user_id = @viewer
		LEFT JOIN tweets p ON p.id = t.parent_tweet_id
		LEFT JOIN users pa ON pa.id = p.author_id
		LEFT JOIN likes pl ON pl.tweet_id = p.id AND pl.user_id = @viewer
		WHERE t.id IN (
			SELECT id FROM tweets WHERE author_id = @viewer
			UNION
			SELECT t2.id FROM tweets t2
			JOIN follows f ON f.followee_id = t2.author_id
			WHERE f.follower_id = @viewer
		)
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT @limit OFFSET @offset
	`, map[string]interface{}{"viewer": viewerID, "limit": limit, "offset": offset}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.FeedEntry{
			Tweet: models.Tweet{
				ID:            row.ID,
				Content:       row.Content,
				MediaURL:      row.MediaURL,
				MediaType:     row.MediaType,
				AuthorID:      row.AuthorID,
				ParentTweetID: row.ParentTweetID,
				CreatedAt:     row.CreatedAt,
			},
			Author: models.UserCompact{
				ID:       row.AuthorID,
				Name:     row.AuthorName,
				Username: row.AuthorUsername,
				Avatar:   row.AuthorAvatar,
			},
			IsLiked: row.IsLiked,
		}
		if row.ParentID != nil {
			entries[i].Parent = &models.FeedParent{
				Tweet: models.Tweet{
					ID:        *row.ParentID,
					Content:   derefString(row.ParentContent),
					MediaURL:  row.ParentMediaURL,
					MediaType: row.ParentMediaType,
					AuthorID:  derefString(row.ParentAuthorID),
					CreatedAt: derefTime(row.ParentCreatedAt),
				},
				Author: models.UserCompact{
					ID:       derefString(row.ParentAuthorID),
					Name:     derefString(row.ParentAuthorName),
					Username: derefString(row.ParentAuthorUsername),
					Avatar:   row.ParentAuthorAvatar,
				},
				IsLiked: row.ParentIsLiked,
			}
		}
	}
	return entries, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
