package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

const usersNS = "test.users"

func aliceDoc(role string) bson.D {
	return bson.D{
		{Key: "_id", Value: int64(3)},
		{Key: "username", Value: "alice"},
		{Key: "password_hash", Value: "$2a$12$hash"},
		{Key: "role", Value: role},
	}
}

func TestCredentialStore_FindByUsername(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, aliceDoc("ROLE_USER")))

		rec, err := s.FindByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), rec.ID)
		assert.Equal(mt, domain.RoleUser, rec.Role)
		assert.Equal(mt, "$2a$12$hash", rec.PasswordHash)
	})

	mt.Run("legacy unprefixed role is canonicalized", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, aliceDoc("ADMIN")))

		rec, err := s.FindByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, domain.RoleAdmin, rec.Role)
	})

	mt.Run("missing", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := s.FindByUsername(context.Background(), "ghost")
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})

	mt.Run("driver failure is wrapped", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))

		_, err := s.FindByUsername(context.Background(), "alice")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrUserNotFound)
		assert.Contains(mt, err.Error(), "find user")
	})
}

func TestCredentialStore_ExistsByUsername(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exists", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		ok, err := s.ExistsByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("absent", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		ok, err := s.ExistsByUsername(context.Background(), "ghost")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestCredentialStore_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	counter := mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: usersCollection},
		{Key: "seq", Value: int64(7)},
	}})
	rec := domain.CredentialRecord{
		Principal:    domain.Principal{Username: "alice", Role: "user"},
		PasswordHash: "$2a$12$hash",
	}

	mt.Run("assigns counter id", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(counter, mtest.CreateSuccessResponse())

		saved, err := s.Save(context.Background(), rec)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), saved.ID)
		assert.Equal(mt, domain.RoleUser, saved.Role)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(counter, mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := s.Save(context.Background(), rec)
		assert.ErrorIs(mt, err, domain.ErrUsernameTaken)
	})
}

func TestCredentialStore_DeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))
		assert.NoError(mt, s.DeleteByID(context.Background(), 3))
	})

	mt.Run("not found", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))
		assert.ErrorIs(mt, s.DeleteByID(context.Background(), 99), domain.ErrUserNotFound)
	})
}

func TestCredentialStore_UpdateRole(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updated", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: aliceDoc("ROLE_ADMIN")}))

		p, err := s.UpdateRole(context.Background(), "alice", domain.RoleAdmin)
		require.NoError(mt, err)
		assert.Equal(mt, domain.RoleAdmin, p.Role)
		assert.Equal(mt, "alice", p.Username)
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := s.UpdateRole(context.Background(), "ghost", domain.RoleAdmin)
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}

func TestCredentialStore_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("orders and strips hashes", func(mt *mtest.T) {
		s := NewCredentialStore(mt.DB)
		root := bson.D{{Key: "_id", Value: int64(1)}, {Key: "username", Value: "root"}, {Key: "role", Value: "ROLE_ADMIN"}}
		alice := bson.D{{Key: "_id", Value: int64(3)}, {Key: "username", Value: "alice"}, {Key: "role", Value: "ROLE_USER"}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, root, alice))

		users, err := s.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "root", users[0].Username)
		assert.Equal(mt, domain.RoleUser, users[1].Role)
	})
}
