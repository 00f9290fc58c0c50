package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// AddComment atomically appends the comment and bumps the version.
func (r *BlogPostRepository) AddComment(ctx context.Context, postID string, c domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(postID, domain.ErrBlogPostNotFound)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"comments": toMongoComment(c)},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("push comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBlogPostNotFound
	}
	return nil
}

// ReplaceComments writes the edited comment slice back in one update. The
// filter pins the version read by the caller; a miss means either the post
// is gone or someone else wrote first.
func (r *BlogPostRepository) ReplaceComments(ctx context.Context, postID string, comments []domain.Comment, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(postID, domain.ErrBlogPostNotFound)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"comments": toMongoComments(comments), "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("replace comments: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("replace comments: %w", err)
	}
	if n == 0 {
		return domain.ErrBlogPostNotFound
	}
	return domain.ErrConflict
}
