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

const authorsCollection = "authors"

// authorFields maps list filter and sort keys to document fields.
var authorFields = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type AuthorRepository struct {
	coll *mongo.Collection
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{coll: db.Collection(authorsCollection)}
}

type mongoAuthor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Role         string             `bson:"role"`
	Avatar       string             `bson:"avatar,omitempty"`
	GoogleID     string             `bson:"google_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m *mongoAuthor) toDomain() *domain.Author {
	return &domain.Author{
		ID:           m.ID.Hex(),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Avatar:       m.Avatar,
		GoogleID:     m.GoogleID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *AuthorRepository) Create(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	doc := mongoAuthor{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Avatar:       a.Avatar,
		GoogleID:     a.GoogleID,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*domain.Author, error) {
	oid, err := objectID(id, domain.ErrAuthorNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AuthorRepository) FindByEmail(ctx context.Context, email string) (*domain.Author, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AuthorRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.Author, error) {
	if googleID == "" {
		return nil, domain.ErrAuthorNotFound
	}
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *AuthorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Author, error) {
	var ma mongoAuthor
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return ma.toDomain(), nil
}

// Update writes the mutable fields. Empty optional fields are unset so the
// sparse google_id index never sees duplicate empty values.
func (r *AuthorRepository) Update(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	oid, err := objectID(a.ID, domain.ErrAuthorNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"first_name": a.FirstName,
		"last_name":  a.LastName,
		"email":      a.Email,
		"role":       string(a.Role),
		"updated_at": a.UpdatedAt.UTC(),
	}
	unset := bson.M{}
	optional := map[string]string{
		"password_hash": a.PasswordHash,
		"avatar":        a.Avatar,
		"google_id":     a.GoogleID,
	}
	for field, v := range optional {
		if v == "" {
			unset[field] = ""
		} else {
			set[field] = v
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var ma mongoAuthor
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("update author: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrAuthorNotFound)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAuthorNotFound
	}
	return nil
}

func (r *AuthorRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Author, int64, error) {
	filter := buildFilter(q.Filters, authorFields)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, findOptions(q, authorFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAuthor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode authors: %w", err)
	}

	authors := make([]*domain.Author, 0, len(docs))
	for i := range docs {
		authors = append(authors, docs[i].toDomain())
	}
	return authors, total, nil
}

// EnsureIndexes creates the unique email and sparse unique google_id indexes.
func (r *AuthorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "google_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("authors indexes: %w", err)
	}
	return nil
}

var _ ports.AuthorRepository = (*AuthorRepository)(nil)
