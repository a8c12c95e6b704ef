package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
	platformdb "stayease_backend/internal/platform/db"
)

// mockListingRepository はテスト用のListingRepositoryモック実装です。
type mockListingRepository struct {
	createFn        func(ctx context.Context, l *entity.Listing) error
	findFn          func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	updateFn        func(ctx context.Context, l *entity.Listing) error
	replaceImagesFn func(ctx context.Context, l *entity.Listing) error
	deleteFn        func(ctx context.Context, l *entity.Listing) error
	searchFn        func(ctx context.Context, c entity.SearchCriteria, p entity.PageRequest) (entity.Page[entity.Listing], error)
	categoriesFn    func(ctx context.Context) ([]string, error)
	viewFn          func(ctx context.Context, id uuid.UUID) error
	favoriteFn      func(ctx context.Context, id uuid.UUID, delta int) error
}

func (m *mockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) FindByPublicID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) ReplaceImages(ctx context.Context, l *entity.Listing) error {
	if m.replaceImagesFn != nil {
		return m.replaceImagesFn(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, l *entity.Listing) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Search(ctx context.Context, c entity.SearchCriteria, p entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, c, p)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingRepository) Categories(ctx context.Context) ([]string, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockListingRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if m.viewFn != nil {
		return m.viewFn(ctx, id)
	}
	return nil
}

func (m *mockListingRepository) AdjustFavoriteCount(ctx context.Context, id uuid.UUID, delta int) error {
	if m.favoriteFn != nil {
		return m.favoriteFn(ctx, id, delta)
	}
	return nil
}

func sampleListing() *entity.Listing {
	return &entity.Listing{
		PublicID:         uuid.MustParse("8f14e45f-ceea-467a-9575-000000000001"),
		LandlordPublicID: uuid.MustParse("8f14e45f-ceea-467a-9575-000000000002"),
		Title:            "Loft",
		Category:         "Apartment",
		Price:            80,
		Currency:         "USD",
		Status:           entity.StatusActive,
		Amenities:        []string{"wifi"},
		HouseRules:       map[string]bool{"pets": false},
		CreatedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

const (
	detailKey    = "listings:detail:8f14e45f-ceea-467a-9575-000000000001"
	detailGenKey = detailKey + ":gen"
)

// TestNewCachingListingRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingListingRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "listings"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "listings"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingListingRepository(nil, tt.ttl, &mockListingRepository{}, tt.namespace)
			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

// TestCachingListingRepository_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingListingRepository_NilRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			calls++
			return sampleListing(), nil
		},
	}
	repo := NewCachingListingRepository(nil, time.Minute, inner, "")

	for i := 0; i < 2; i++ {
		_, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	require.NoError(t, repo.Update(context.Background(), sampleListing()))
	require.NoError(t, repo.Purge(context.Background()))
}

// TestCachingListingRepository_Find_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingListingRepository_Find_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(sampleListing())
	mock.ExpectGet(detailKey).SetVal(string(cached))

	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			t.Error("inner repository should not be called on cache hit")
			return nil, nil
		},
	}
	repo := NewCachingListingRepository(rdb, 5*time.Minute, inner, "listings")

	got, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	assert.Equal(t, sampleListing().PublicID, got.PublicID)
	assert.Equal(t, []string{"wifi"}, got.Amenities)
	assert.True(t, sampleListing().CreatedAt.Equal(got.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_Find_CacheMiss はキャッシュミス時にDBから取得してキャッシュに保存することを検証します。
func TestCachingListingRepository_Find_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(sampleListing())
	mock.ExpectGet(detailKey).RedisNil()
	mock.ExpectGet(detailGenKey).RedisNil()
	mock.ExpectEval(setIfUnchangedScript, []string{detailKey, detailGenKey}, "", expected, int64(300000)).SetVal(int64(1))

	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			return sampleListing(), nil
		},
	}
	repo := NewCachingListingRepository(rdb, 5*time.Minute, inner, "listings")

	got, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	assert.Equal(t, "Loft", got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_Find_NotFoundIsNotCached は存在しないリスティングをキャッシュしないことを検証します。
func TestCachingListingRepository_Find_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(detailKey).RedisNil()
	mock.ExpectGet(detailGenKey).RedisNil()

	repo := NewCachingListingRepository(rdb, 5*time.Minute, &mockListingRepository{}, "listings")

	_, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	assert.ErrorIs(t, err, usecase.ErrListingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_Find_CorruptedCache は破損したキャッシュを削除してDBにフォールバックすることを検証します。
func TestCachingListingRepository_Find_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(sampleListing())
	mock.ExpectGet(detailKey).SetVal("invalid json")
	mock.ExpectDel(detailKey).SetVal(1)
	mock.ExpectGet(detailGenKey).SetVal("3")
	mock.ExpectEval(setIfUnchangedScript, []string{detailKey, detailGenKey}, "3", expected, int64(300000)).SetVal(int64(1))

	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			return sampleListing(), nil
		},
	}
	repo := NewCachingListingRepository(rdb, 5*time.Minute, inner, "listings")

	_, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_Find_RedisDown はRedisエラー時にDBへフォールバックすることを検証します。
func TestCachingListingRepository_Find_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(detailKey).SetErr(errors.New("connection refused"))
	mock.ExpectGet(detailGenKey).SetErr(errors.New("connection refused"))

	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			return sampleListing(), nil
		},
	}
	repo := NewCachingListingRepository(rdb, 5*time.Minute, inner, "listings")

	got, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	assert.Equal(t, "Loft", got.Title)
	// 世代が読めなければ書き戻さない
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_WritesInvalidate は書き込み後に関連キャッシュが無効化されることを検証します。
func TestCachingListingRepository_WritesInvalidate(t *testing.T) {
	t.Parallel()

	const categoriesKey = "listings:categories"
	l := sampleListing()

	tests := []struct {
		name string
		keys []string
		call func(repo *CachingListingRepository) error
	}{
		{"create", []string{categoriesKey}, func(r *CachingListingRepository) error {
			return r.Create(context.Background(), l)
		}},
		{"update", []string{detailKey, categoriesKey}, func(r *CachingListingRepository) error {
			return r.Update(context.Background(), l)
		}},
		{"replace images", []string{detailKey}, func(r *CachingListingRepository) error {
			return r.ReplaceImages(context.Background(), l)
		}},
		{"delete", []string{detailKey, categoriesKey}, func(r *CachingListingRepository) error {
			return r.Delete(context.Background(), l)
		}},
		{"view", []string{detailKey}, func(r *CachingListingRepository) error {
			return r.IncrementViewCount(context.Background(), l.PublicID)
		}},
		{"favorite count", []string{detailKey}, func(r *CachingListingRepository) error {
			return r.AdjustFavoriteCount(context.Background(), l.PublicID, 1)
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()
			mock.ExpectDel(tt.keys...).SetVal(int64(len(tt.keys)))
			for _, k := range tt.keys {
				mock.ExpectIncr(k + ":gen").SetVal(1)
				mock.ExpectExpire(k+":gen", 2*time.Minute).SetVal(true)
			}

			repo := NewCachingListingRepository(rdb, time.Minute, &mockListingRepository{}, "listings")
			require.NoError(t, tt.call(repo))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestCachingListingRepository_InnerErrorSkipsInvalidation は内部エラー時にキャッシュを触らないことを検証します。
func TestCachingListingRepository_InnerErrorSkipsInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	boom := errors.New("db down")
	inner := &mockListingRepository{
		updateFn: func(ctx context.Context, l *entity.Listing) error { return boom },
	}
	repo := NewCachingListingRepository(rdb, time.Minute, inner, "listings")

	assert.ErrorIs(t, repo.Update(context.Background(), sampleListing()), boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingListingRepository_Categories はカテゴリ一覧のキャッシュを検証します。
func TestCachingListingRepository_Categories(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	categories := []string{"Apartment", "Cabin"}
	b, _ := json.Marshal(categories)
	mock.ExpectGet("listings:categories").RedisNil()
	mock.ExpectGet("listings:categories:gen").RedisNil()
	mock.ExpectEval(setIfUnchangedScript, []string{"listings:categories", "listings:categories:gen"}, "", b, int64(60000)).SetVal(int64(1))
	mock.ExpectGet("listings:categories").SetVal(string(b))

	calls := 0
	inner := &mockListingRepository{
		categoriesFn: func(ctx context.Context) ([]string, error) {
			calls++
			return categories, nil
		},
	}
	repo := NewCachingListingRepository(rdb, time.Minute, inner, "listings")

	for i := 0; i < 2; i++ {
		got, err := repo.Categories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, categories, got)
	}
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func setupMiniredis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

// TestCachingListingRepository_Transaction はトランザクション中の読み取りをバイパスし、
// 無効化をコミット後まで遅延することを検証します。
func TestCachingListingRepository_Transaction(t *testing.T) {
	t.Parallel()

	rdb, mr := setupMiniredis(t)
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	tm := platformdb.NewTxManager(gdb)

	stale, _ := json.Marshal(&entity.Listing{Title: "stale"})
	require.NoError(t, mr.Set(detailKey, string(stale)))

	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			return sampleListing(), nil
		},
	}
	repo := NewCachingListingRepository(rdb, time.Minute, inner, "listings")

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		got, err := repo.FindByPublicID(ctx, sampleListing().PublicID)
		require.NoError(t, err)
		assert.Equal(t, "Loft", got.Title, "reads inside a transaction must not use the cache")

		require.NoError(t, repo.Update(ctx, got))
		assert.True(t, mr.Exists(detailKey), "invalidation waits for commit")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(detailKey))

	// rollback keeps the entry
	require.NoError(t, mr.Set(detailKey, string(stale)))
	_ = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repo.Update(ctx, sampleListing()))
		return errors.New("rollback")
	})
	assert.True(t, mr.Exists(detailKey))
}

// TestCachingListingRepository_Find_ConcurrentWriteNotCached は読み込み中に
// 書き込みが入った場合、古いリスティングを書き戻さないことを検証します。
func TestCachingListingRepository_Find_ConcurrentWriteNotCached(t *testing.T) {
	t.Parallel()

	rdb, mr := setupMiniredis(t)

	var repo *CachingListingRepository
	raced := false
	inner := &mockListingRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
			stale := sampleListing()
			if !raced {
				raced = true
				// DBから読んだ後、返す前に別リクエストが更新を完了した状態
				updated := sampleListing()
				updated.Title = "Renovated loft"
				require.NoError(t, repo.Update(ctx, updated))
			}
			return stale, nil
		},
	}
	repo = NewCachingListingRepository(rdb, time.Minute, inner, "listings")

	got, err := repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	assert.Equal(t, "Loft", got.Title)
	assert.False(t, mr.Exists(detailKey), "a load that raced with a write must not be cached")
	gen, err := mr.Get(detailGenKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	// 競合がなければ通常通りキャッシュされる
	_, err = repo.FindByPublicID(context.Background(), sampleListing().PublicID)
	require.NoError(t, err)
	require.True(t, mr.Exists(detailKey))
	assert.Greater(t, mr.TTL(detailKey), time.Duration(0))
	raw, err := mr.Get(detailKey)
	require.NoError(t, err)
	var cached entity.Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, "Loft", cached.Title)
}

// TestCachingListingRepository_Purge はnamespace内のキーのみを削除することを検証します。
func TestCachingListingRepository_Purge(t *testing.T) {
	t.Parallel()

	rdb, mr := setupMiniredis(t)
	require.NoError(t, mr.Set("listings:detail:a", "x"))
	require.NoError(t, mr.Set("listings:categories", "[]"))
	require.NoError(t, mr.Set("revoked:abc", "1"))

	repo := NewCachingListingRepository(rdb, time.Minute, &mockListingRepository{}, "listings")
	require.NoError(t, repo.Purge(context.Background()))

	assert.False(t, mr.Exists("listings:detail:a"))
	assert.False(t, mr.Exists("listings:categories"))
	assert.True(t, mr.Exists("revoked:abc"))
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"listings", "listings"},
		{"my cache", "my_cache"},
		{"a:b", "a_b"},
		{"a*", "a_"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, safe(tt.input))
		})
	}
}
