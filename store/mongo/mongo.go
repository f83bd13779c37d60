// Package mongo implements the slug engine's store contract on MongoDB using
// the official driver. Each hierarchy root type maps to one collection;
// scoped slug uniqueness is enforced with partial unique indexes, the
// authoritative backstop for concurrent creation races.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/slugkit/store"
)

// Store persists slug records in a MongoDB database, one collection per root
// type.
type Store struct {
	db *mongo.Database
}

// New creates a MongoDB-backed store.
//
// Example:
//
//	client, err := mongo.Connect(options.Client().ApplyURI(uri))
//	st := mongostore.New(client.Database("catalog"))
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) coll(rootType string) *mongo.Collection {
	return s.db.Collection(rootType)
}

// Get fetches a record by root type and ID.
func (s *Store) Get(ctx context.Context, rootType, id string) (*store.Record, error) {
	var doc bson.M
	err := s.coll(rootType).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(rootType, doc), nil
}

// Save upserts a record. A duplicate-key rejection from a scoped unique slug
// index is reported as store.ErrDuplicateSlug.
func (s *Store) Save(ctx context.Context, rec *store.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RootType == "" {
		rec.RootType = rec.Type
	}

	_, err := s.coll(rec.RootType).ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		encodeRecord(rec),
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(store.ErrDuplicateSlug, err)
	}
	return err
}

// Delete removes a record. Missing records are ignored.
func (s *Store) Delete(ctx context.Context, rootType, id string) error {
	_, err := s.coll(rootType).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Claims returns every slug value held within the filtered scope.
func (s *Store) Claims(ctx context.Context, f store.Filter, includeHistory bool) ([]store.Claim, error) {
	attr := f.SlugAttr()
	projection := bson.M{"_id": 1, attr: 1}
	if includeHistory {
		projection[historyKey(attr)] = 1
	}

	cur, err := s.coll(f.Type).Find(ctx, scopeQuery(f), options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // read-only cursor

	var claims []store.Claim
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		id, _ := doc["_id"].(string)
		if slug, ok := doc[attr].(string); ok && slug != "" {
			claims = append(claims, store.Claim{EntityID: id, Value: slug})
		}
		if includeHistory {
			for _, v := range stringSlice(doc[historyKey(attr)]) {
				claims = append(claims, store.Claim{EntityID: id, Value: v, FromHistory: true})
			}
		}
	}
	return claims, cur.Err()
}

// PullHistory removes value from the slug history of every record in scope.
func (s *Store) PullHistory(ctx context.Context, f store.Filter, value string) (int, error) {
	hist := historyKey(f.SlugAttr())
	query := scopeQuery(f)
	query[hist] = value

	res, err := s.coll(f.Type).UpdateMany(ctx, query, bson.M{"$pull": bson.M{hist: value}})
	if err != nil {
		return 0, err
	}
	return int(res.ModifiedCount), nil
}

// FindBySlug returns the records in scope holding value as their current slug
// or, when includeHistory is set, in their history.
func (s *Store) FindBySlug(ctx context.Context, f store.Filter, value string, includeHistory bool) ([]*store.Record, error) {
	attr := f.SlugAttr()
	query := scopeQuery(f)
	if includeHistory {
		query["$or"] = bson.A{
			bson.M{attr: value},
			bson.M{historyKey(attr): value},
		}
	} else {
		query[attr] = value
	}

	cur, err := s.coll(f.Type).Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // read-only cursor

	var out []*store.Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, decodeRecord(f.Type, doc))
	}
	return out, cur.Err()
}

// EnsureIndex creates the scoped slug index on the root type's collection.
// The partial filter keeps records without a slug out of the unique
// constraint.
func (s *Store) EnsureIndex(ctx context.Context, rootType string, spec store.IndexSpec) error {
	keys := make(bson.D, 0, len(spec.ScopeFields)+1)
	for _, field := range spec.ScopeFields {
		keys = append(keys, bson.E{Key: field, Value: 1})
	}
	keys = append(keys, bson.E{Key: spec.Attr, Value: 1})

	idx := options.Index()
	if spec.Unique {
		idx.SetUnique(true).SetPartialFilterExpression(bson.M{
			spec.Attr: bson.M{"$exists": true},
		})
	}

	_, err := s.coll(rootType).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: idx,
	})
	return err
}

// scopeQuery translates the filter's scope predicates into a Mongo query.
func scopeQuery(f store.Filter) bson.M {
	q := bson.M{}
	if f.ParentID != nil {
		q["parent_id"] = *f.ParentID
	}
	for name, target := range f.Refs {
		q["refs."+name] = target
	}
	for name, val := range f.Fields {
		q["fields."+name] = val
	}
	if f.ExcludeID != "" {
		q["_id"] = bson.M{"$ne": f.ExcludeID}
	}
	return q
}

func historyKey(attr string) string {
	return attr + "_history"
}

// encodeRecord maps a record to its document shape. The slug key is omitted
// entirely when empty so the partial unique index never sees blank values.
func encodeRecord(rec *store.Record) bson.M {
	doc := bson.M{
		"_id":       rec.ID,
		"type":      rec.Type,
		"slug_attr": rec.SlugAttr(),
	}
	if rec.ParentID != "" {
		doc["parent_id"] = rec.ParentID
	}
	if len(rec.Refs) > 0 {
		refs := bson.M{}
		for name, target := range rec.Refs {
			refs[name] = target
		}
		doc["refs"] = refs
	}
	if len(rec.Fields) > 0 {
		fields := bson.M{}
		for name, val := range rec.Fields {
			fields[name] = val
		}
		doc["fields"] = fields
	}
	if rec.Slug != "" {
		doc[rec.SlugAttr()] = rec.Slug
	}
	if len(rec.SlugHistory) > 0 {
		doc[historyKey(rec.SlugAttr())] = rec.SlugHistory
	}
	return doc
}

func decodeRecord(rootType string, doc bson.M) *store.Record {
	rec := &store.Record{
		RootType: rootType,
	}
	rec.ID, _ = doc["_id"].(string)
	rec.Type, _ = doc["type"].(string)
	if rec.Type == "" {
		rec.Type = rootType
	}
	rec.ParentID, _ = doc["parent_id"].(string)
	rec.Attr, _ = doc["slug_attr"].(string)

	if refs, ok := doc["refs"].(bson.M); ok {
		rec.Refs = make(map[string]string, len(refs))
		for name, target := range refs {
			rec.Refs[name] = fmt.Sprint(target)
		}
	}
	if fields, ok := doc["fields"].(bson.M); ok {
		rec.Fields = map[string]any(fields)
	}
	rec.Slug, _ = doc[rec.SlugAttr()].(string)
	rec.SlugHistory = stringSlice(doc[historyKey(rec.SlugAttr())])
	return rec
}

func stringSlice(v any) []string {
	arr, ok := v.(bson.A)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var _ store.Store = (*Store)(nil)
