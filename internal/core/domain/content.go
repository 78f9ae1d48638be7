package domain

import "time"

// FeedKind distinguishes the two article feeds that share one model.
type FeedKind string

const (
	FeedNews  FeedKind = "news"
	FeedPosts FeedKind = "post"
)

// Article is a news item or a community post.
type Article struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Author         string    `json:"author"`
	AuthorID       *string   `json:"author_id"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	Image          *string   `json:"image"`
	LikesCount     int       `json:"likes_count"`
	CommentsCount  int       `json:"comments_count"`
	UserHasLiked   bool      `json:"user_has_liked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ArticlePatch holds the optional fields of an article update.
type ArticlePatch struct {
	Title   *string
	Content *string
	Image   *string
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Image == nil
}

// Comment is a reader comment on an article. UserID is nil for legacy rows
// written before comments were tied to accounts.
type Comment struct {
	ID               int64     `json:"id"`
	ArticleID        int64     `json:"-"`
	UserID           *string   `json:"user_id"`
	UserName         string    `json:"user_name"`
	// LegacyOwner marks rows imported before owner ids existed. Only these
	// may be claimed by display name.
	LegacyOwner      bool      `json:"-"`
	Content          string    `json:"content"`
	AuthorAvatar     *string   `json:"author_avatar,omitempty"`
	AuthorRole       *Role     `json:"author_role,omitempty"`
	AuthorReputation *int      `json:"author_reputation,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// LikeResult is the like state of an article after a toggle.
type LikeResult struct {
	LikesCount   int  `json:"likes_count"`
	UserHasLiked bool `json:"user_has_liked"`
}

// Drink is a menu entry with its aggregated review rating.
type Drink struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price"`
	Category     *string   `json:"category"`
	ImageURL     *string   `json:"image_url"`
	Ingredients  []string  `json:"ingredients"`
	Rating       *float64  `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DrinkPatch holds the optional fields of a drink update.
type DrinkPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	Ingredients *[]string
}

// Empty reports whether the patch changes nothing.
func (p DrinkPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.ImageURL == nil && p.Ingredients == nil
}

// Review is a rating left on a drink.
type Review struct {
	ID       int64   `json:"id"`
	DrinkID  int64   `json:"drink_id"`
	UserID   *string `json:"user_id"`
	UserName string  `json:"user_name"`
	// LegacyOwner has the same meaning as on Comment.
	LegacyOwner bool      `json:"-"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewSummary is the drink aggregate after a review is added.
type ReviewSummary struct {
	Review       *Review  `json:"review"`
	Rating       *float64 `json:"rating"`
	ReviewsCount int      `json:"reviews_count"`
}

// CascadeResult reports the dependent rows removed with a parent resource.
type CascadeResult struct {
	Comments int64 `json:"comments"`
	Likes    int64 `json:"likes"`
	Reviews  int64 `json:"reviews"`
}

// Upload is a stored image.
type Upload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
