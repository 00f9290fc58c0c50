package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/strivezine/blog-system/internal/core/domain"
)

const testPostID = "65a1b2c3d4e5f60718293a4b"

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: blog.authors index: email_1",
	})
}

// countReply is the aggregate reply CountDocuments reads; n < 0 means no
// matching document.
func countReply(ns string, n int64) bson.D {
	if n < 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func sampleAuthor() *domain.Author {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Author{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleAuthor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAuthorRepository_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("stores timestamps as dates", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := repo.Create(context.Background(), sampleAuthor())
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if got.ID == "" {
			mt.Fatal("expected the generated id")
		}

		cmd := mt.GetStartedEvent().Command
		for _, field := range []string{"created_at", "updated_at"} {
			v, err := cmd.LookupErr("documents", "0", field)
			if err != nil {
				mt.Fatalf("%s missing: %v", field, err)
			}
			if v.Type != bson.TypeDateTime {
				mt.Fatalf("%s stored as %s, want a date", field, v.Type)
			}
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		mt.AddMockResponses(duplicateKey())

		if _, err := repo.Create(context.Background(), sampleAuthor()); !errors.Is(err, domain.ErrAuthorExists) {
			mt.Fatalf("expected ErrAuthorExists, got %v", err)
		}
	})
}

func TestAuthorRepository_Update(t *testing.T) {
	mt := newMock(t)

	mt.Run("unsets cleared optional fields", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "ada@example.com"},
			{Key: "role", Value: "Author"},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}))

		a := sampleAuthor()
		a.ID = oid.Hex()
		a.PasswordHash = ""
		a.GoogleID = ""

		got, err := repo.Update(context.Background(), a)
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		if got.HasPassword() || got.GoogleID != "" {
			mt.Fatalf("decoded author kept cleared fields: %+v", got)
		}

		update := mt.GetStartedEvent().Command.Lookup("update").Document()
		for _, field := range []string{"password_hash", "google_id", "avatar"} {
			if _, err := update.LookupErr("$unset", field); err != nil {
				mt.Errorf("%s not unset: %v", field, err)
			}
			if _, err := update.LookupErr("$set", field); err == nil {
				mt.Errorf("%s must not be set when empty", field)
			}
		}
	})

	mt.Run("sets provided google id", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: oid},
			{Key: "google_id", Value: "g-1"},
		}}))

		a := sampleAuthor()
		a.ID = oid.Hex()
		a.GoogleID = "g-1"

		if _, err := repo.Update(context.Background(), a); err != nil {
			mt.Fatalf("update: %v", err)
		}
		update := mt.GetStartedEvent().Command.Lookup("update").Document()
		if v := update.Lookup("$set", "google_id").StringValue(); v != "g-1" {
			mt.Fatalf("google_id = %q", v)
		}
		if _, err := update.LookupErr("$unset", "google_id"); err == nil {
			mt.Fatal("google_id must not be unset when provided")
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Name:    "DuplicateKey",
			Message: "E11000 duplicate key error collection: blog.authors index: email_1",
		}))

		a := sampleAuthor()
		a.ID = primitive.NewObjectID().Hex()
		if _, err := repo.Update(context.Background(), a); !errors.Is(err, domain.ErrAuthorExists) {
			mt.Fatalf("expected ErrAuthorExists, got %v", err)
		}
	})

	mt.Run("missing author", func(mt *mtest.T) {
		repo := NewAuthorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		a := sampleAuthor()
		a.ID = primitive.NewObjectID().Hex()
		if _, err := repo.Update(context.Background(), a); !errors.Is(err, domain.ErrAuthorNotFound) {
			mt.Fatalf("expected ErrAuthorNotFound, got %v", err)
		}
	})
}

func TestBlogPostRepository_AddComment(t *testing.T) {
	mt := newMock(t)
	comment := domain.Comment{ID: "c-1", AuthorID: "a-1", Text: "nice", Rate: 5, CreatedAt: time.Now()}

	mt.Run("pushes the persisted shape", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := repo.AddComment(context.Background(), testPostID, comment); err != nil {
			mt.Fatalf("add comment: %v", err)
		}
		pushed := mt.GetStartedEvent().Command.Lookup("updates", "0", "u", "$push", "comments").Document()
		if v := pushed.Lookup("author_id").StringValue(); v != "a-1" {
			mt.Fatalf("author_id = %q", v)
		}
		if pushed.Lookup("created_at").Type != bson.TypeDateTime {
			mt.Fatal("created_at must be stored as a date")
		}
	})

	mt.Run("missing post", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		if err := repo.AddComment(context.Background(), testPostID, comment); !errors.Is(err, domain.ErrBlogPostNotFound) {
			mt.Fatalf("expected ErrBlogPostNotFound, got %v", err)
		}
	})
}

func TestBlogPostRepository_ReplaceComments(t *testing.T) {
	mt := newMock(t)
	ns := mtest.TestDb + "." + collectionBlogPosts
	comments := []domain.Comment{{ID: "c-1", AuthorID: "a-1", Text: "edited", Rate: 4}}

	mt.Run("pins the version", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := repo.ReplaceComments(context.Background(), testPostID, comments, 7); err != nil {
			mt.Fatalf("replace: %v", err)
		}
		v, err := mt.GetStartedEvent().Command.LookupErr("updates", "0", "q", "version")
		if err != nil {
			mt.Fatalf("filter has no version: %v", err)
		}
		if got, ok := v.AsInt64OK(); !ok || got != 7 {
			mt.Fatalf("version filter = %v", v)
		}
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			countReply(ns, 1),
		)

		if err := repo.ReplaceComments(context.Background(), testPostID, comments, 7); !errors.Is(err, domain.ErrConflict) {
			mt.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	mt.Run("missing post", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			countReply(ns, -1),
		)

		if err := repo.ReplaceComments(context.Background(), testPostID, comments, 7); !errors.Is(err, domain.ErrBlogPostNotFound) {
			mt.Fatalf("expected ErrBlogPostNotFound, got %v", err)
		}
	})

	mt.Run("nil slice stored as empty array", func(mt *mtest.T) {
		repo := NewBlogPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := repo.ReplaceComments(context.Background(), testPostID, nil, 0); err != nil {
			mt.Fatalf("replace: %v", err)
		}
		v := mt.GetStartedEvent().Command.Lookup("updates", "0", "u", "$set", "comments")
		if v.Type != bson.TypeArray {
			mt.Fatalf("comments stored as %s, want an array", v.Type)
		}
	})
}
