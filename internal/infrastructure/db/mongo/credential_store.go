package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// CredentialStore persists credential records in MongoDB. Numeric user IDs
// come from an atomically incremented counter document; username uniqueness
// is enforced by a unique index.
type CredentialStore struct {
	db       *mongo.Database
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{
		db:       db,
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type userDoc struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d userDoc) principal() domain.Principal {
	return domain.Principal{ID: d.ID, Username: d.Username, Role: domain.CanonicalRole(d.Role)}
}

func (d userDoc) record() *domain.CredentialRecord {
	return &domain.CredentialRecord{Principal: d.principal(), PasswordHash: d.PasswordHash}
}

func errs() oops.OopsErrorBuilder {
	return oops.In("mongo").Tags("credential_store")
}

// EnsureIndexes creates the unique username index. Safe to call on every start.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	})
	if err != nil {
		return errs().Wrapf(err, "create username index")
	}
	return nil
}

// Ping reports whether the backing database is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return errs().Wrapf(err, "ping")
	}
	return nil
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.CredentialRecord, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errs().With("username", username).Wrapf(err, "find user")
	}
	return doc.record(), nil
}

func (s *CredentialStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, errs().With("username", username).Wrapf(err, "count users")
	}
	return n > 0, nil
}

func (s *CredentialStore) Save(ctx context.Context, record domain.CredentialRecord) (*domain.CredentialRecord, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Unix()
	doc := userDoc{
		ID:           id,
		Username:     record.Username,
		PasswordHash: record.PasswordHash,
		Role:         string(domain.CanonicalRole(string(record.Role))),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, errs().With("username", record.Username).Wrapf(err, "insert user")
	}
	return doc.record(), nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errs().With("user_id", id).Wrapf(err, "find user")
	}
	p := doc.principal()
	return &p, nil
}

func (s *CredentialStore) List(ctx context.Context) ([]domain.Principal, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0}))
	if err != nil {
		return nil, errs().Wrapf(err, "list users")
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs().Wrapf(err, "decode users")
	}

	out := make([]domain.Principal, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.principal())
	}
	return out, nil
}

func (s *CredentialStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs().With("user_id", id).Wrapf(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *CredentialStore) UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.Principal, error) {
	update := bson.M{"$set": bson.M{
		"role":       string(domain.CanonicalRole(string(role))),
		"updated_at": time.Now().UTC().Unix(),
	}}

	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"username": username}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errs().With("username", username).Wrapf(err, "update role")
	}
	p := doc.principal()
	return &p, nil
}

func (s *CredentialStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, errs().Wrapf(err, "allocate user id")
	}
	return counter.Seq, nil
}
