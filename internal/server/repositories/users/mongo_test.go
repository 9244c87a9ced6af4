package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/server/models"
)

func userDoc(otp any, exp any) bson.D {
	return bson.D{
		{Key: "_id", Value: "u-1"},
		{Key: "name", Value: "Alice"},
		{Key: "email", Value: "a@x.com"},
		{Key: "password_hash", Value: "hash"},
		{Key: "otp", Value: otp},
		{Key: "otp_expires_at", Value: exp},
		{Key: "created_at", Value: fixedNow},
		{Key: "updated_at", Value: fixedNow},
	}
}

func newMongoRepo(mt *mtest.T) *MongoRepository {
	r := NewMongoRepository(mt.Coll)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by email", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc(nil, nil)))

		got, err := newMongoRepo(mt).FindByEmail(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u-1", got.ID)
		assert.Equal(mt, "Alice", got.Name)
		assert.False(mt, got.HasPendingReset())
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := newMongoRepo(mt).FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("find by email and otp", func(mt *mtest.T) {
		exp := fixedNow.Add(15 * time.Minute)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc("123456", exp)))

		got, err := newMongoRepo(mt).FindByEmailAndOtp(context.Background(), "a@x.com", "123456")
		require.NoError(mt, err)
		require.True(mt, got.HasPendingReset())
		assert.Equal(mt, "123456", *got.Otp)
		assert.True(mt, got.OtpExpiresAt.Equal(exp))
	})

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := newMongoRepo(mt).Create(context.Background(),
			&models.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, got.ID)
		assert.Equal(mt, fixedNow, got.CreatedAt)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: users_email_key",
		}))

		_, err := newMongoRepo(mt).Create(context.Background(),
			&models.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, common.ErrorAlreadyExists)
	})

	mt.Run("set otp", func(mt *mtest.T) {
		exp := fixedNow.Add(15 * time.Minute)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: userDoc("654321", exp)},
		))

		got, err := newMongoRepo(mt).SetOtp(context.Background(), "a@x.com", "654321", exp)
		require.NoError(mt, err)
		assert.Equal(mt, "654321", *got.Otp)
	})

	mt.Run("set otp unknown email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := newMongoRepo(mt).SetOtp(context.Background(), "nobody@x.com", "654321", fixedNow)
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("update password matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := newMongoRepo(mt).UpdatePasswordAndClearOtp(context.Background(), "u-1", "123456", "new")
		assert.NoError(mt, err)
	})

	mt.Run("update password code consumed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := newMongoRepo(mt).UpdatePasswordAndClearOtp(context.Background(), "u-1", "123456", "new")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}
