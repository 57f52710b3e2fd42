package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/aggregates"
	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	"github.com/yungbote/foodgram-backend/internal/platform/authz"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

// memoryBucket is an in-process objectstore.BucketService.
type memoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	uploads int
	failPut error
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{objects: map[string][]byte{}}
}

func (b *memoryBucket) UploadFile(_ dbctx.Context, category objectstore.BucketCategory, key string, file io.Reader) error {
	if b.failPut != nil {
		return b.failPut
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	b.objects[string(category)+"/"+key] = data
	return nil
}

func (b *memoryBucket) DeleteFile(_ dbctx.Context, category objectstore.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, string(category)+"/"+key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *memoryBucket) GetPublicURL(category objectstore.BucketCategory, key string) string {
	return "http://cdn.test/" + string(category) + "/" + key
}

func (b *memoryBucket) has(category objectstore.BucketCategory, key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[string(category)+"/"+key]
	return ok
}

func (b *memoryBucket) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

func (b *memoryBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	bucket *memoryBucket

	users       repos.UserRepo
	tokens      repos.UserTokenRepo
	ingredients repos.IngredientRepo
	recipes     repos.RecipeRepo
	lines       repos.RecipeIngredientRepo
	memberships repos.MembershipRepo

	auth          AuthService
	userSvc       UserService
	avatarSvc     AvatarService
	recipeSvc     RecipeService
	membershipSvc MembershipService
	subscriptions SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	f := &fixture{
		ctx:         context.Background(),
		db:          db,
		bucket:      newMemoryBucket(),
		users:       repos.NewUserRepo(db, log),
		tokens:      repos.NewUserTokenRepo(db, log),
		ingredients: repos.NewIngredientRepo(db, log),
		recipes:     repos.NewRecipeRepo(db, log),
		lines:       repos.NewRecipeIngredientRepo(db, log),
		memberships: repos.NewMembershipRepo(db, log),
	}
	base := aggregates.BaseDeps{DB: db, Log: log}
	recipeAgg := aggregates.NewRecipeAggregate(aggregates.RecipeAggregateDeps{
		Base:        base,
		Recipes:     f.recipes,
		Lines:       f.lines,
		Ingredients: f.ingredients,
		Memberships: f.memberships,
		Authz:       enforcer,
	})
	membershipAgg := aggregates.NewMembershipAggregate(aggregates.MembershipAggregateDeps{
		Base:        base,
		Memberships: f.memberships,
		Recipes:     f.recipes,
		Users:       f.users,
	})
	userAgg := aggregates.NewUserAggregate(aggregates.UserAggregateDeps{
		Base:        base,
		Users:       f.users,
		Tokens:      f.tokens,
		Recipes:     f.recipes,
		Lines:       f.lines,
		Memberships: f.memberships,
	})

	f.auth = NewAuthService(db, log, f.users, f.tokens, AuthConfig{
		JWTSecretKey: "test-secret",
		BcryptCost:   bcrypt.MinCost,
	})
	f.userSvc = NewUserService(log, f.users, f.recipes, f.lines, f.memberships, userAgg, f.bucket)
	f.avatarSvc = NewAvatarService(log, f.users, f.bucket)
	f.recipeSvc = NewRecipeService(log, f.users, f.recipes, f.lines, f.memberships, recipeAgg, f.bucket)
	f.membershipSvc = NewMembershipService(log, f.recipes, membershipAgg)
	f.subscriptions = NewSubscriptionService(log, f.users, f.recipes, f.lines, f.memberships, membershipAgg)
	return f
}

// as returns a context authenticated as userID.
func (f *fixture) as(userID int64) context.Context {
	return ctxutil.WithRequestData(f.ctx, &ctxutil.RequestData{UserID: userID})
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func ptr[T any](v T) *T { return &v }
