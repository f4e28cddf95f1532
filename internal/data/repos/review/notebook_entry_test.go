package review

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mentorly/mentorly-backend/internal/data/repos/testutil"
)

func TestNotebookEntryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewNotebookEntryRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "notebookentryrepo@example.com")
	q := testutil.SeedQuestion(t, ctx, tx, "pharmacology")

	e := testutil.SeedNotebookEntry(t, ctx, tx, u.ID, q.ID, "pharmacology")

	got, err := repo.GetByID(ctx, tx, e.ID)
	if err != nil || got == nil || got.ReviewRecordID != nil {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	unlinked, err := repo.ListUnlinked(ctx, tx, nil, 10)
	if err != nil {
		t.Fatalf("ListUnlinked: %v", err)
	}
	found := false
	for _, row := range unlinked {
		if row.ID == e.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("ListUnlinked: entry %s not returned", e.ID)
	}

	rr := testutil.SeedReviewRecord(t, ctx, tx, u.ID, q.ID, "question", e.CreatedAt)
	if err := repo.SetReviewRecordID(ctx, tx, e.ID, &rr.ID); err != nil {
		t.Fatalf("SetReviewRecordID: %v", err)
	}
	linked, _ := repo.GetByID(ctx, tx, e.ID)
	if linked == nil || linked.ReviewRecordID == nil || *linked.ReviewRecordID != rr.ID {
		t.Fatalf("SetReviewRecordID verify: %+v", linked)
	}

	rows, err := repo.ListByUser(ctx, tx, u.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{e.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if gone, err := repo.GetByID(ctx, tx, e.ID); err != nil || gone != nil {
		t.Fatalf("after delete: err=%v got=%+v", err, gone)
	}
}
