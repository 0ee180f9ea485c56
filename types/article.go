package types

import "time"

// Article is the persisted record for one ingested news post.
// Field names mirror the serving site's Post collection.
type Article struct {
	Title        string    `bson:"title" json:"title"`
	RewriteTitle string    `bson:"rewriteTitle,omitempty" json:"rewrite_title,omitempty"`
	Slug         string    `bson:"slug" json:"slug"`
	Content      string    `bson:"content" json:"content"`
	Rewritten    string    `bson:"rewritten,omitempty" json:"rewritten,omitempty"`
	HTMLContent  string    `bson:"htmlContent,omitempty" json:"html_content,omitempty"`
	Thumbnail    string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Images       []string  `bson:"images,omitempty" json:"images,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Author       string    `bson:"author,omitempty" json:"author,omitempty"`
	PublishedAt  time.Time `bson:"publishedAt" json:"published_at"`
	Source       string    `bson:"source,omitempty" json:"source,omitempty"`
	MainCategory string    `bson:"mainCategory,omitempty" json:"main_category,omitempty"`
	SubCategory  string    `bson:"subCategory,omitempty" json:"sub_category,omitempty"`

	// Normalized category slugs, computed once at write time so category
	// listings can filter on an indexed field instead of re-slugifying
	// every row's free text.
	MainCategorySlug string `bson:"mainCategorySlug,omitempty" json:"main_category_slug,omitempty"`
	SubCategorySlug  string `bson:"subCategorySlug,omitempty" json:"sub_category_slug,omitempty"`

	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	ReadTime    int       `bson:"readTime,omitempty" json:"read_time,omitempty"`
	OriginalURL string    `bson:"originalUrl" json:"original_url"`
	Published   bool      `bson:"published" json:"published"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`

	FacebookPosted   bool      `bson:"facebookPosted" json:"facebook_posted"`
	FacebookPostID   string    `bson:"facebookPostId,omitempty" json:"facebook_post_id,omitempty"`
	FacebookPostTime time.Time `bson:"facebookPostTime,omitempty" json:"facebook_post_time,omitempty"`
}

// RewriteResult holds the AI-rewritten title and body. Both fields may be
// empty when the rewrite service failed or returned something unparsable;
// that is a valid outcome, not an error.
type RewriteResult struct {
	RewriteTitle string `json:"rewrite_title"`
	Rewritten    string `json:"rewritten"`
}
