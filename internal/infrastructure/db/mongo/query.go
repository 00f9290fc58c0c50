package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/strivezine/blog-system/internal/core/ports"
)

// buildFilter translates list filters into a bson filter. Keys missing from
// fields are dropped; keys in partial match case-insensitively anywhere in
// the value.
func buildFilter(filters map[string]string, fields map[string]string, partial ...string) bson.M {
	contains := make(map[string]bool, len(partial))
	for _, p := range partial {
		contains[p] = true
	}

	filter := bson.M{}
	for key, value := range filters {
		field, ok := fields[key]
		if !ok || value == "" {
			continue
		}
		if contains[key] {
			filter[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
			continue
		}
		filter[field] = value
	}
	return filter
}

// findOptions applies sort, skip and limit. Without an explicit sort the
// newest documents come first; _id breaks ties so pages are stable.
func findOptions(q ports.ListQuery, fields map[string]string) *options.FindOptions {
	sort := bson.D{}
	for _, s := range q.Sort {
		field, ok := fields[s.Field]
		if !ok {
			continue
		}
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if len(sort) == 0 {
		sort = append(sort, bson.E{Key: "created_at", Value: -1})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	opts := options.Find().SetSort(sort).SetSkip(int64(q.Offset))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}
