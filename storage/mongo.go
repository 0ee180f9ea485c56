package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"newsai/types"
)

// ErrDuplicateSlug is returned when an insert violates the unique slug
// index. Two different titles can normalize to the same slug; the store is
// the final guard against silently overwriting one with the other.
var ErrDuplicateSlug = errors.New("storage: slug already exists")

// ErrNotFound is returned by lookups that match no document.
var ErrNotFound = errors.New("storage: post not found")

// PostStore persists ingested articles in the posts collection.
type PostStore struct {
	client *mongo.Client
	posts  *mongo.Collection
}

// NewPostStore connects to MongoDB and ensures the indexes the pipeline
// relies on: a unique slug index and a category-slug index for listings.
func NewPostStore(ctx context.Context, uri, database string) (*PostStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	store := &PostStore{
		client: client,
		posts:  client.Database(database).Collection("posts"),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostStore) ensureIndexes(ctx context.Context) error {
	_, err := s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "mainCategorySlug", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// ExistsByTitle reports whether a post with this exact title is already
// stored. This is the pipeline's soft duplicate guard.
func (s *PostStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	err := s.posts.FindOne(ctx, bson.M{"title": title},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, fmt.Errorf("query title: %w", err)
}

// Insert stores a finished article record. A unique-index violation on
// slug surfaces as ErrDuplicateSlug.
func (s *PostStore) Insert(ctx context.Context, article *types.Article) error {
	_, err := s.posts.InsertOne(ctx, article)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// FindBySlug loads one post by its slug.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*types.Article, error) {
	var article types.Article
	err := s.posts.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by slug: %w", err)
	}
	return &article, nil
}

// ListByCategorySlug returns the newest posts whose stored main-category
// slug matches. The slug is computed at write time by the same normalizer
// that built the taxonomy, so matching stays an indexed equality check.
func (s *PostStore) ListByCategorySlug(ctx context.Context, categorySlug string, limit int64) ([]types.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.posts.Find(ctx, bson.M{"mainCategorySlug": categorySlug}, opts)
	if err != nil {
		return nil, fmt.Errorf("list by category: %w", err)
	}
	defer cur.Close(ctx)

	var articles []types.Article
	if err := cur.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return articles, nil
}

// MarkFacebookPosted records that a post was cross-posted to Facebook.
// This is the only mutation performed on a stored record.
func (s *PostStore) MarkFacebookPosted(ctx context.Context, slug, postID string) error {
	res, err := s.posts.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$set": bson.M{
			"facebookPosted":   true,
			"facebookPostId":   postID,
			"facebookPostTime": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("mark facebook posted: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the underlying client.
func (s *PostStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
