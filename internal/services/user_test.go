package services

import (
	"strings"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

func TestUserListAndMe(t *testing.T) {
	f := newFixture(t)
	alice := testutil.SeedUser(t, f.ctx, f.db, "ul_alice")
	bob := testutil.SeedUser(t, f.ctx, f.db, "ul_bob")

	users, total, err := f.userSvc.List(f.ctx, 0, 1)
	if err != nil || total != 2 || len(users) != 1 || users[0].User.ID != alice.ID {
		t.Fatalf("List: total=%d len=%d err=%v", total, len(users), err)
	}
	me, err := f.userSvc.Me(f.as(bob.ID))
	if err != nil || me.User.ID != bob.ID || me.IsSubscribed {
		t.Fatalf("Me: %+v %v", me, err)
	}
	if _, err := f.userSvc.Me(f.ctx); domainagg.CodeOf(err) != domainagg.CodeUnauthenticated {
		t.Fatalf("anonymous Me: %v", err)
	}
	if _, err := f.userSvc.Get(f.ctx, bob.ID+100); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("Get missing: %v", err)
	}
}

func TestAvatarLifecycle(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.ctx, f.db, "av_user")
	ctx := f.as(user.ID)

	url, err := f.avatarSvc.Get(ctx)
	if err != nil || url != nil {
		t.Fatalf("fresh user should have no avatar: %v %v", url, err)
	}
	if _, err := f.avatarSvc.Put(ctx, nil); domainagg.MessageOf(err) != "avatar: this field is required" {
		t.Fatalf("missing avatar: %v", err)
	}
	if _, err := f.avatarSvc.Put(ctx, ptr("data:image/png;base64,not-base64!")); domainagg.CodeOf(err) != domainagg.CodeValidation {
		t.Fatalf("corrupt avatar: %v", err)
	}

	first, err := f.avatarSvc.Put(ctx, ptr(pngDataURL(t, 40, 20)))
	if err != nil || !strings.Contains(first, "user_avatar/") {
		t.Fatalf("Put: %q %v", first, err)
	}
	second, err := f.avatarSvc.Put(ctx, ptr(pngDataURL(t, 20, 40)))
	if err != nil || second == first {
		t.Fatalf("second Put: %q %v", second, err)
	}
	if n := f.bucket.count(); n != 1 {
		t.Fatalf("previous avatar should be removed, %d objects stored", n)
	}
	got, err := f.avatarSvc.Get(ctx)
	if err != nil || got == nil || *got != second {
		t.Fatalf("Get after Put: %v %v", got, err)
	}

	if err := f.avatarSvc.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := f.bucket.count(); n != 0 {
		t.Fatalf("avatar object left behind: %d", n)
	}
	if got, _ := f.avatarSvc.Get(ctx); got != nil {
		t.Fatalf("avatar still set after delete: %v", *got)
	}
}

func TestDeleteMe(t *testing.T) {
	f := newFixture(t)
	owner, err := f.auth.Register(f.ctx, validRegistration("dm_owner"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	ctx := f.as(owner.ID)

	created, err := f.recipeSvc.Create(ctx, recipeInput(t, "Scones", types.LineItemInput{IngredientID: flour.ID, Amount: 300}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.avatarSvc.Put(ctx, ptr(pngDataURL(t, 16, 16))); err != nil {
		t.Fatalf("Put avatar: %v", err)
	}
	if n := f.bucket.count(); n != 2 {
		t.Fatalf("expected recipe image and avatar stored, got %d", n)
	}

	if err := f.userSvc.DeleteMe(ctx, DeleteMeInput{}); domainagg.CodeOf(err) != domainagg.CodeValidation {
		t.Fatalf("missing password: %v", err)
	}
	if err := f.userSvc.DeleteMe(ctx, DeleteMeInput{CurrentPassword: "wrong-one"}); domainagg.MessageOf(err) != msgWrongPassword {
		t.Fatalf("wrong password: %v", err)
	}
	if err := f.userSvc.DeleteMe(ctx, DeleteMeInput{CurrentPassword: "correct-horse"}); err != nil {
		t.Fatalf("DeleteMe: %v", err)
	}

	if n := f.bucket.count(); n != 0 {
		t.Fatalf("stored objects survived account deletion: %d", n)
	}
	if f.bucket.has(objectstore.BucketCategoryRecipe, created.Recipe.ImageBucketKey) {
		t.Fatalf("recipe image survived")
	}
	if _, err := f.recipeSvc.Get(f.ctx, created.Recipe.ID); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("recipe survived account deletion: %v", err)
	}
	if _, err := f.userSvc.Get(f.ctx, owner.ID); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("user survived account deletion: %v", err)
	}
}
