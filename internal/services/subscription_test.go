package services

import (
	"errors"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
)

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	reader := testutil.SeedUser(t, f.ctx, f.db, "sub_reader")
	chef := testutil.SeedUser(t, f.ctx, f.db, "sub_chef")
	baker := testutil.SeedUser(t, f.ctx, f.db, "sub_baker")
	for _, name := range []string{"one", "two", "three"} {
		testutil.SeedRecipe(t, f.ctx, f.db, chef.ID, "chef-"+name)
	}
	testutil.SeedRecipe(t, f.ctx, f.db, baker.ID, "baker-one")
	ctx := f.as(reader.ID)

	view, err := f.subscriptions.Subscribe(ctx, chef.ID, 2)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if view.User.ID != chef.ID || !view.IsSubscribed || view.RecipesCount != 3 || len(view.Recipes) != 2 {
		t.Fatalf("unexpected author view: id=%d subscribed=%v count=%d recipes=%d",
			view.User.ID, view.IsSubscribed, view.RecipesCount, len(view.Recipes))
	}
	if _, err := f.subscriptions.Subscribe(ctx, chef.ID, 0); domainagg.CodeOf(err) != domainagg.CodeConflict {
		t.Fatalf("duplicate subscription: %v", err)
	}
	if _, err := f.subscriptions.Subscribe(ctx, reader.ID, 0); domainagg.CodeOf(err) != domainagg.CodeValidation {
		t.Fatalf("self subscription: %v", err)
	}
	if _, err := f.subscriptions.Subscribe(ctx, baker.ID+100, 0); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("subscribe to missing user: %v", err)
	}
	if _, err := f.subscriptions.Subscribe(ctx, baker.ID, 0); err != nil {
		t.Fatalf("Subscribe baker: %v", err)
	}

	list, total, err := f.subscriptions.List(ctx, 0, 10, 0)
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("List: total=%d len=%d err=%v", total, len(list), err)
	}
	if list[0].User.ID != baker.ID || list[1].User.ID != chef.ID {
		t.Fatalf("newest subscription should come first: %d, %d", list[0].User.ID, list[1].User.ID)
	}
	if len(list[1].Recipes) != 3 {
		t.Fatalf("recipes_limit <= 0 should return all recipes, got %d", len(list[1].Recipes))
	}

	userView, err := f.userSvc.Get(ctx, chef.ID)
	if err != nil || !userView.IsSubscribed {
		t.Fatalf("profile should show subscription: %+v %v", userView, err)
	}

	if err := f.subscriptions.Unsubscribe(ctx, chef.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	err = f.subscriptions.Unsubscribe(ctx, chef.ID)
	if domainagg.CodeOf(err) != domainagg.CodeNotFound || !errors.Is(err, domainagg.ErrMembershipMissing) {
		t.Fatalf("second unsubscribe should report a missing pair, got %v", err)
	}
	_, total, err = f.subscriptions.List(ctx, 0, 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("List after unsubscribe: total=%d err=%v", total, err)
	}

	if _, _, err := f.subscriptions.List(f.ctx, 0, 10, 0); domainagg.CodeOf(err) != domainagg.CodeUnauthenticated {
		t.Fatalf("anonymous list: %v", err)
	}
}
