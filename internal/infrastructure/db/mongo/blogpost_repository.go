package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

const collectionBlogPosts = "blog_posts"

var blogPostFields = map[string]string{
	"category":  "category",
	"title":     "title",
	"authorId":  "author_id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type BlogPostRepository struct {
	col *mongo.Collection
}

func NewBlogPostRepository(db *mongo.Database) *BlogPostRepository {
	return &BlogPostRepository{col: db.Collection(collectionBlogPosts)}
}

type mongoBlogPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Category  string             `bson:"category"`
	Title     string             `bson:"title"`
	Cover     string             `bson:"cover,omitempty"`
	ReadTime  mongoReadTime      `bson:"read_time"`
	AuthorID  string             `bson:"author_id"`
	Content   string             `bson:"content"`
	Comments  []mongoComment     `bson:"comments"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type mongoReadTime struct {
	Value int    `bson:"value"`
	Unit  string `bson:"unit"`
}

type mongoComment struct {
	ID        string    `bson:"id"`
	AuthorID  string    `bson:"author_id"`
	Text      string    `bson:"text"`
	Rate      int       `bson:"rate"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toMongoComment(c domain.Comment) mongoComment {
	return mongoComment{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Rate:      c.Rate,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (m mongoComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Text:      m.Text,
		Rate:      m.Rate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toMongoComments never returns nil so the stored field is always an array.
func toMongoComments(comments []domain.Comment) []mongoComment {
	out := make([]mongoComment, 0, len(comments))
	for _, c := range comments {
		out = append(out, toMongoComment(c))
	}
	return out
}

func toMongoBlogPost(p *domain.BlogPost) mongoBlogPost {
	return mongoBlogPost{
		Category:  p.Category,
		Title:     p.Title,
		Cover:     p.Cover,
		ReadTime:  mongoReadTime(p.ReadTime),
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		Comments:  toMongoComments(p.Comments),
		Version:   p.Version,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (m *mongoBlogPost) toDomain() *domain.BlogPost {
	comments := make([]domain.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		comments = append(comments, c.toDomain())
	}
	return &domain.BlogPost{
		ID:        m.ID.Hex(),
		Category:  m.Category,
		Title:     m.Title,
		Cover:     m.Cover,
		ReadTime:  domain.ReadTime(m.ReadTime),
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		Comments:  comments,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new post document.
func (r *BlogPostRepository) Create(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoBlogPost(p)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert blog post: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves a post with its comments.
func (r *BlogPostRepository) FindByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrBlogPostNotFound)
	if err != nil {
		return nil, err
	}

	var doc mongoBlogPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("find blog post: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets the post fields and leaves comments and version alone.
func (r *BlogPostRepository) Update(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(p.ID, domain.ErrBlogPostNotFound)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"category":   p.Category,
		"title":      p.Title,
		"cover":      p.Cover,
		"read_time":  mongoReadTime(p.ReadTime),
		"content":    p.Content,
		"updated_at": p.UpdatedAt.UTC(),
	}}

	var doc mongoBlogPost
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BlogPostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrBlogPostNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBlogPostNotFound
	}
	return nil
}

// List returns a page of posts. Titles match partially.
func (r *BlogPostRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.BlogPost, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildFilter(q.Filters, blogPostFields, "title")

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, findOptions(q, blogPostFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list blog posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoBlogPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode blog posts: %w", err)
	}

	posts := make([]*domain.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, total, nil
}

// EnsureIndexes creates necessary indexes on the blog_posts collection.
func (r *BlogPostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("blog_posts indexes: %w", err)
	}
	return nil
}

var _ ports.BlogPostRepository = (*BlogPostRepository)(nil)
