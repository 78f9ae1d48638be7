package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// feedTables names the three tables backing one article feed.
type feedTables struct {
	articles string
	likes    string
	comments string
	fk       string
	notFound error
}

var (
	newsTables  = feedTables{"news", "news_likes", "news_comments", "news_id", domain.ErrNewsNotFound}
	postsTables = feedTables{"posts", "post_likes", "post_comments", "post_id", domain.ErrPostNotFound}
)

// FeedRepository stores news or posts, depending on the kind it was built for.
type FeedRepository struct {
	db *sql.DB
	t  feedTables

	selectArticle string
}

func NewFeedRepository(db *sql.DB, kind domain.FeedKind) *FeedRepository {
	t := newsTables
	if kind == domain.FeedPosts {
		t = postsTables
	}
	return &FeedRepository{
		db: db,
		t:  t,
		selectArticle: fmt.Sprintf(`
			SELECT a.id, a.title, a.content, a.author, a.author_id, u.username, a.image,
				a.created_at, a.updated_at,
				(SELECT COUNT(*) FROM %[2]s l WHERE l.%[4]s = a.id),
				(SELECT COUNT(*) FROM %[3]s c WHERE c.%[4]s = a.id),
				EXISTS (SELECT 1 FROM %[2]s l WHERE l.%[4]s = a.id AND l.user_id::text = $1)
			FROM %[1]s a
			LEFT JOIN users u ON u.id = a.author_id`, t.articles, t.likes, t.comments, t.fk),
	}
}

func scanArticle(r rowScanner) (*domain.Article, error) {
	var (
		a                  domain.Article
		authorID, username sql.NullString
		image              sql.NullString
	)
	err := r.Scan(&a.ID, &a.Title, &a.Content, &a.Author, &authorID, &username, &image,
		&a.CreatedAt, &a.UpdatedAt, &a.LikesCount, &a.CommentsCount, &a.UserHasLiked)
	if err != nil {
		return nil, err
	}
	a.AuthorID = nullString(authorID)
	a.AuthorUsername = nullString(username)
	a.Image = nullString(image)
	return &a, nil
}

// List returns every article newest first with its like state for viewerID.
func (r *FeedRepository) List(ctx context.Context, viewerID string) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, r.selectArticle+` ORDER BY a.created_at DESC`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.articles, err)
	}
	defer rows.Close()

	out := make([]domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.t.articles, err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *FeedRepository) Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanArticle(r.db.QueryRowContext(ctx, r.selectArticle+` WHERE a.id = $2`, viewerID, id))
	if err != nil {
		return nil, translate(err, "select "+r.t.articles, r.t.notFound)
	}
	return a, nil
}

func (r *FeedRepository) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (title, content, author, author_id, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, r.t.articles),
		a.Title, a.Content, a.Author, a.AuthorID, a.Image).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.t.articles, err)
	}
	return a, nil
}

// Update applies the non-nil fields of patch and returns the refreshed article.
func (r *FeedRepository) Update(ctx context.Context, id int64, p domain.ArticlePatch) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			image = COALESCE($4, image),
			updated_at = NOW()
		WHERE id = $1`, r.t.articles), id, p.Title, p.Content, p.Image)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.t.articles, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, r.t.notFound
	}
	return r.Get(ctx, id, "")
}

// Delete removes the article together with its likes and comments.
func (r *FeedRepository) Delete(ctx context.Context, id int64) (domain.CascadeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out domain.CascadeResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if out.Likes, err = execCount(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.t.likes, r.t.fk), id); err != nil {
			return err
		}
		if out.Comments, err = execCount(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.t.comments, r.t.fk), id); err != nil {
			return err
		}
		n, err := execCount(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.articles), id)
		if err != nil {
			return err
		}
		if n == 0 {
			return r.t.notFound
		}
		return nil
	})
	if err != nil {
		return domain.CascadeResult{}, err
	}
	return out, nil
}

// ToggleLike removes the user's like when present and adds it otherwise.
func (r *FeedRepository) ToggleLike(ctx context.Context, articleID int64, userID string) (*domain.LikeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out domain.LikeResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		removed, err := execCount(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, r.t.likes, r.t.fk), articleID, userID)
		if err != nil {
			return err
		}
		if removed == 0 {
			_, err = tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s, user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, r.t.likes, r.t.fk), articleID, userID)
			if err != nil {
				if isForeignKeyViolation(err) {
					return r.t.notFound
				}
				return fmt.Errorf("insert like: %w", err)
			}
			out.UserHasLiked = true
		}

		err = tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.t.likes, r.t.fk), articleID).Scan(&out.LikesCount)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Comments returns the article's comments newest first, joined with the
// author's live avatar, role and reputation.
func (r *FeedRepository) Comments(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT c.id, c.%[2]s, c.user_id, c.user_name, c.content, c.created_at,
			u.avatar, u.role, u.reputation
		FROM %[1]s c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.%[2]s = $1
		ORDER BY c.created_at DESC`, r.t.comments, r.t.fk), articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Comment, 0)
	for rows.Next() {
		var (
			c                    domain.Comment
			userID, avatar, role sql.NullString
			reputation           sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.ArticleID, &userID, &c.UserName, &c.Content, &c.CreatedAt, &avatar, &role, &reputation); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.UserID = nullString(userID)
		c.AuthorAvatar = nullString(avatar)
		if role.Valid {
			rl := domain.Role(role.String)
			c.AuthorRole = &rl
		}
		if reputation.Valid {
			rep := int(reputation.Int64)
			c.AuthorReputation = &rep
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *FeedRepository) AddComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, user_name, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, r.t.comments, r.t.fk),
		c.ArticleID, c.UserID, c.UserName, c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, r.t.notFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// FindComment returns the comment only when it belongs to articleID.
func (r *FeedRepository) FindComment(ctx context.Context, articleID, commentID int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		c      domain.Comment
		userID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, user_id, user_name, legacy_owner, content, created_at
		FROM %[1]s WHERE id = $1 AND %[2]s = $2`, r.t.comments, r.t.fk),
		commentID, articleID).Scan(&c.ID, &c.ArticleID, &userID, &c.UserName, &c.LegacyOwner, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, translate(err, "select comment", domain.ErrCommentNotFound)
	}
	c.UserID = nullString(userID)
	return &c, nil
}

func (r *FeedRepository) DeleteComment(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := execCount(ctx, r.db, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.comments), commentID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execCount runs a statement and returns the number of affected rows.
func execCount(ctx context.Context, db execer, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	return res.RowsAffected()
}
