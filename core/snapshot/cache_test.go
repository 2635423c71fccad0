package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"rules-service/core/database"
	"rules-service/core/dataset"
	"rules-service/core/hash"
	"rules-service/core/snapshot"
	"rules-service/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// countingSigner returns "sig:<hash>" and counts calls.
type countingSigner struct {
	calls int
	err   error
}

func (s *countingSigner) Sign(_ context.Context, h string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "sig:" + h, nil
}

func (s *countingSigner) PublicKey(context.Context) (string, error) { return "pub", nil }

func newGormRepo(t *testing.T) *snapshot.GormRepository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, &snapshot.SignedList{}))
	return snapshot.NewGormRepository(db)
}

func TestCacheUpdateListing(t *testing.T) {
	ctx := context.Background()
	repos := map[string]func(t *testing.T) snapshot.Repository{
		"gorm":   func(t *testing.T) snapshot.Repository { return newGormRepo(t) },
		"memory": func(*testing.T) snapshot.Repository { return snapshot.NewMemoryRepository() },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			signer := &countingSigner{}
			cache := snapshot.New(newRepo(t), signer)

			_, err := cache.Get(ctx, dataset.KindRules)
			assert.ErrorIs(t, err, dataset.ErrNotFound)

			// Create
			changed, err := cache.UpdateListing(ctx, dataset.KindRules, nil)
			require.NoError(t, err)
			assert.True(t, changed)

			list, err := cache.Get(ctx, dataset.KindRules)
			require.NoError(t, err)
			assert.Equal(t, "[]", list.RawData)
			assert.Equal(t, hash.SumString("[]"), list.Hash)
			assert.Equal(t, "sig:"+list.Hash, list.Signature)

			// Equal hash is a no-op
			changed, err = cache.UpdateListing(ctx, dataset.KindRules, []dataset.Listing{})
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, 1, signer.calls)

			// Changed hash replaces the list
			listing := []dataset.Listing{{Identifier: "GR-DE-0001", Version: "1.0.0", Country: "DE", Hash: hash.SumString("x")}}
			changed, err = cache.UpdateListing(ctx, dataset.KindRules, listing)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, 2, signer.calls)

			updated, err := cache.Get(ctx, dataset.KindRules)
			require.NoError(t, err)
			assert.NotEqual(t, list.Hash, updated.Hash)
			assert.Contains(t, updated.RawData, "GR-DE-0001")

			// Other types are independent
			_, err = cache.Get(ctx, dataset.KindValueSets)
			assert.ErrorIs(t, err, dataset.ErrNotFound)
		})
	}
}

func TestCacheWithoutSigner(t *testing.T) {
	ctx := context.Background()
	cache := snapshot.New(snapshot.NewMemoryRepository(), nil)

	changed, err := cache.UpdateRaw(ctx, dataset.KindCountryList, []byte(`["DE"]`))
	require.NoError(t, err)
	assert.True(t, changed)

	list, err := cache.Get(ctx, dataset.KindCountryList)
	require.NoError(t, err)
	assert.Empty(t, list.Signature)
	assert.Equal(t, hash.SumString(`["DE"]`), list.Hash)
}

func TestCacheSignFailure(t *testing.T) {
	ctx := context.Background()
	repo := snapshot.NewMemoryRepository()
	cache := snapshot.New(repo, &countingSigner{err: errors.New("hsm down")})

	_, err := cache.UpdateRaw(ctx, dataset.KindRules, []byte("[]"))
	assert.Error(t, err)

	_, err = repo.Find(ctx, dataset.KindRules)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestCachePublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes Changed Lists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", ctx, "rules", "signedlists/valuesets.json", mock.Anything, int64(2), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.UserMetadata["hash"] == hash.SumString("[]")
		})).Return(minio.UploadInfo{}, nil).Once()

		cache := snapshot.New(snapshot.NewMemoryRepository(), nil,
			snapshot.WithPublisher(snapshot.NewStoragePublisher(client, "rules", "/signedlists/")))

		_, err := cache.UpdateRaw(ctx, dataset.KindValueSets, []byte("[]"))
		require.NoError(t, err)
		_, err = cache.UpdateRaw(ctx, dataset.KindValueSets, []byte("[]"))
		require.NoError(t, err)

		client.AssertExpectations(t)
	})

	t.Run("Publish Failure Is Not Fatal", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("bucket gone"))

		cache := snapshot.New(snapshot.NewMemoryRepository(), nil,
			snapshot.WithPublisher(snapshot.NewStoragePublisher(client, "rules", "signedlists")))

		changed, err := cache.UpdateRaw(ctx, dataset.KindRules, []byte("[]"))
		require.NoError(t, err)
		assert.True(t, changed)
	})
}
