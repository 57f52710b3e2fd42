package user

import (
	"context"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, tx, "userrepo_alice")
	bob := testutil.SeedUser(t, ctx, tx, "userrepo_bob")

	if rows, err := repo.GetByIDs(dbc, []int64{alice.ID, bob.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByEmails(dbc, []string{"USERREPO_ALICE@example.com"}); err != nil || len(rows) != 1 || rows[0].ID != alice.ID {
		t.Fatalf("GetByEmails should be case-insensitive: err=%v rows=%v", err, rows)
	}
	if ok, err := repo.EmailExists(dbc, alice.Email); err != nil || !ok {
		t.Fatalf("EmailExists: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.UsernameExists(dbc, "nobody_here"); err != nil || ok {
		t.Fatalf("UsernameExists(missing): ok=%v err=%v", ok, err)
	}

	if err := repo.UpdatePassword(dbc, alice.ID, "hash-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	url := "http://cdn.test/a.png"
	if err := repo.UpdateAvatarFields(dbc, alice.ID, "avatars/a.png", &url); err != nil {
		t.Fatalf("UpdateAvatarFields: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []int64{alice.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after update: err=%v", err)
	}
	if rows[0].Password != "hash-2" || rows[0].AvatarURL == nil || *rows[0].AvatarURL != url {
		t.Fatalf("unexpected user after update: %+v", rows[0])
	}
	if err := repo.UpdateAvatarFields(dbc, alice.ID, "", nil); err != nil {
		t.Fatalf("clear avatar: %v", err)
	}
	rows, _ = repo.GetByIDs(dbc, []int64{alice.ID})
	if rows[0].AvatarURL != nil || rows[0].AvatarBucketKey != "" {
		t.Fatalf("avatar should be cleared: %+v", rows[0])
	}

	page, total, err := repo.List(dbc, 0, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total < 2 || len(page) != 1 {
		t.Fatalf("List: total=%d len=%d", total, len(page))
	}

	if err := repo.FullDeleteByIDs(dbc, []int64{bob.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []int64{bob.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after delete: err=%v len=%d", err, len(rows))
	}
}
