package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"
)

func newTestProfileService(secret string) (*ProfileService, *fakeProfileStore, *fakeMedia) {
	store := newFakeProfileStore()
	media := newFakeMedia()
	svc := NewProfileService(store, media, NewPaymentVerifier(secret), 14)
	return svc, store, media
}

func validInput() ProfileInput {
	return ProfileInput{
		FullName:    "Asha Sharma",
		Gender:      "female",
		DateOfBirth: time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC),
		Contact:     "+91-9999999999",
		Education:   "MSc",
		Occupation:  "Engineer",
	}
}

func approvedUser(id string, member bool) *models.User {
	return &models.User{ID: id, IsApproved: true, IsMember: member}
}

func TestCreateMemberAutoApproved(t *testing.T) {
	svc, _, _ := newTestProfileService("s")

	p, err := svc.Create(context.Background(), approvedUser("u1", true), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.PaymentRequired {
		t.Errorf("member profile should not require payment")
	}
	if !p.IsPaid || !p.IsApproved {
		t.Errorf("member profile should be paid and approved at creation, got paid=%v approved=%v", p.IsPaid, p.IsApproved)
	}
	if p.State() != models.StateApproved {
		t.Errorf("state = %s, want %s", p.State(), models.StateApproved)
	}
}

func TestCreateNonMemberAwaitsPayment(t *testing.T) {
	svc, _, _ := newTestProfileService("s")

	p, err := svc.Create(context.Background(), approvedUser("u1", false), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.PaymentRequired {
		t.Errorf("non-member profile should require payment")
	}
	if p.IsPaid || p.IsApproved {
		t.Errorf("non-member profile should start unpaid and unapproved")
	}
	if p.State() != models.StateAwaitingPayment {
		t.Errorf("state = %s, want %s", p.State(), models.StateAwaitingPayment)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestProfileService("s")
	ctx := context.Background()

	missing := validInput()
	missing.Occupation = ""
	if _, err := svc.Create(ctx, approvedUser("u1", false), missing); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing occupation: got %v, want ErrValidation", err)
	}

	minor := validInput()
	minor.DateOfBirth = time.Now().AddDate(-17, 0, 0)
	if _, err := svc.Create(ctx, approvedUser("u1", false), minor); !errors.Is(err, models.ErrValidation) {
		t.Errorf("underage: got %v, want ErrValidation", err)
	}

	if _, err := svc.Create(ctx, &models.User{ID: "u2"}, validInput()); !errors.Is(err, models.ErrValidation) {
		t.Errorf("unapproved account: got %v, want ErrValidation", err)
	}
}

func TestRecordPaymentIdempotent(t *testing.T) {
	svc, _, _ := newTestProfileService("secret")
	ctx := context.Background()

	p, err := svc.Create(ctx, approvedUser("u1", false), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sig := signPayload("secret", "order_1", "pay_1")
	paid, err := svc.RecordPayment(ctx, p.ID, "order_1", "pay_1", sig, 50000)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if !paid.IsPaid || !paid.IsApproved {
		t.Errorf("payment should mark profile paid and approved")
	}
	if paid.Payment == nil || paid.Payment.OrderID != "order_1" || paid.Payment.Amount != 50000 {
		t.Errorf("payment record = %+v", paid.Payment)
	}

	// Replay the same callback.
	if _, err := svc.RecordPayment(ctx, p.ID, "order_1", "pay_1", sig, 50000); !errors.Is(err, models.ErrAlreadyPaid) {
		t.Fatalf("replay: got %v, want ErrAlreadyPaid", err)
	}

	after, err := svc.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Payment.PaymentID != "pay_1" {
		t.Errorf("replay altered the payment record: %+v", after.Payment)
	}
}

func TestRecordPaymentBadSignature(t *testing.T) {
	svc, _, _ := newTestProfileService("secret")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", false), validInput())
	if _, err := svc.RecordPayment(ctx, p.ID, "order_1", "pay_1", "deadbeef", 50000); !errors.Is(err, models.ErrPaymentInvalid) {
		t.Fatalf("got %v, want ErrPaymentInvalid", err)
	}

	after, _ := svc.store.GetByID(ctx, p.ID)
	if after.IsPaid {
		t.Errorf("rejected payment must not mark the profile paid")
	}
}

func TestHideRequiresOwnerAndApproval(t *testing.T) {
	svc, _, _ := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", false), validInput())

	if _, err := svc.Hide(ctx, p.ID, "someone-else"); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("foreign hide: got %v, want ErrNotOwner", err)
	}
	if _, err := svc.Hide(ctx, p.ID, "u1"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("hide before approval: got %v, want ErrValidation", err)
	}

	if err := svc.Approve(ctx, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	hidden, err := svc.Hide(ctx, p.ID, "u1")
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	if !hidden.IsHidden || hidden.Discoverable() {
		t.Errorf("hidden profile still discoverable")
	}
	if _, err := svc.Hide(ctx, p.ID, "u1"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("double hide: got %v, want ErrValidation", err)
	}

	shown, err := svc.Unhide(ctx, p.ID, "u1")
	if err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if shown.IsHidden || !shown.Discoverable() {
		t.Errorf("unhidden profile not discoverable")
	}
}

func TestCompleteUsesCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	svc, _, _ := newTestProfileService("s")
	ctx := context.Background()

	// 14 calendar days from March 1 cross the US spring-forward on March 8.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, loc)
	svc.now = func() time.Time { return now }

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	done, err := svc.Complete(ctx, p.ID, 14)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	want := now.AddDate(0, 0, 14)
	if !done.ScheduledDeletionAt.Equal(want) {
		t.Errorf("scheduled deletion = %v, want %v", done.ScheduledDeletionAt, want)
	}
	if !done.ScheduledDeletionAt.Equal(done.CompletedAt.AddDate(0, 0, 14)) {
		t.Errorf("scheduled deletion not completedAt + 14 calendar days")
	}
	if elapsed := done.ScheduledDeletionAt.Sub(now); elapsed == 14*24*time.Hour {
		t.Errorf("grace period used fixed 24h days across a DST boundary")
	}
}

func TestCompleteRearmsClock(t *testing.T) {
	svc, _, _ := newTestProfileService("s")
	ctx := context.Background()

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	if _, err := svc.Complete(ctx, p.ID, 14); err != nil {
		t.Fatalf("complete: %v", err)
	}

	second := first.AddDate(0, 0, 10)
	svc.now = func() time.Time { return second }
	done, err := svc.Complete(ctx, p.ID, 14)
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if !done.ScheduledDeletionAt.Equal(second.AddDate(0, 0, 14)) {
		t.Errorf("second complete did not re-arm the deletion clock")
	}
}

func TestCompleteRequiresApproval(t *testing.T) {
	svc, _, _ := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", false), validInput())
	if _, err := svc.Complete(ctx, p.ID, 14); !errors.Is(err, models.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestDeleteMediaBestEffort(t *testing.T) {
	svc, store, media := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	if _, err := svc.AddPhoto(ctx, p.ID, "u1", "image/jpeg", true); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if _, err := svc.AddPhoto(ctx, p.ID, "u1", "image/jpeg", false); err != nil {
		t.Fatalf("add photo: %v", err)
	}

	cur, _ := store.GetByID(ctx, p.ID)
	media.failKeys[cur.Photos[0].MediaKey] = true

	if err := svc.Delete(ctx, p.ID, "u1", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(media.deleted) != 2 {
		t.Errorf("media delete attempts = %d, want 2", len(media.deleted))
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("record not removed after media failure: %v", err)
	}
}

func TestDeleteWithoutPhotosMakesNoMediaCalls(t *testing.T) {
	svc, _, media := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	if err := svc.Delete(ctx, p.ID, "u1", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(media.deleted) != 0 || len(media.batches) != 0 {
		t.Errorf("media host called for a photo-less profile")
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc, store, _ := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	if err := svc.Delete(ctx, p.ID, "intruder", false); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("got %v, want ErrNotOwner", err)
	}
	// Admins may delete any profile.
	if err := svc.Delete(ctx, p.ID, "admin", true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("profile still present after admin delete")
	}
}

func TestRejectOnlyBeforeApproval(t *testing.T) {
	svc, store, _ := newTestProfileService("s")
	ctx := context.Background()

	pending, _ := svc.Create(ctx, approvedUser("u1", false), validInput())
	if err := svc.Reject(ctx, pending.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := store.GetByID(ctx, pending.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("rejected profile still present")
	}

	approved, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	if err := svc.Reject(ctx, approved.ID); !errors.Is(err, models.ErrValidation) {
		t.Errorf("rejecting approved profile: got %v, want ErrValidation", err)
	}
}

func TestGetCountsViews(t *testing.T) {
	svc, store, _ := newTestProfileService("s")
	ctx := context.Background()

	p, _ := svc.Create(ctx, approvedUser("u1", true), validInput())
	for i := 0; i < 3; i++ {
		if _, err := svc.Get(ctx, p.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	cur, _ := store.GetByID(ctx, p.ID)
	if cur.ViewCount != 3 {
		t.Errorf("view count = %d, want 3", cur.ViewCount)
	}

	// A failing counter must not fail the read.
	store.failViews = true
	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get with failing counter: %v", err)
	}
	if got == nil {
		t.Fatalf("read lost when counter failed")
	}
}

func TestListEnforcesAccessGate(t *testing.T) {
	svc, _, _ := newTestProfileService("secret")
	ctx := context.Background()

	member := approvedUser("member", true)
	outsider := approvedUser("outsider", false)

	if _, err := svc.Create(ctx, member, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := svc.List(ctx, outsider, 10, 0); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("outsider browse: got %v, want ErrNotOwner", err)
	}

	if _, _, err := svc.List(ctx, member, 10, 0); err != nil {
		t.Errorf("member browse: %v", err)
	}

	// A paid profile of one's own opens the gate.
	own, _ := svc.Create(ctx, outsider, validInput())
	sig := signPayload("secret", "o1", "p1")
	if _, err := svc.RecordPayment(ctx, own.ID, "o1", "p1", sig, 50000); err != nil {
		t.Fatalf("pay: %v", err)
	}
	profiles, total, err := svc.List(ctx, outsider, 10, 0)
	if err != nil {
		t.Fatalf("paid outsider browse: %v", err)
	}
	if total != len(profiles) || total == 0 {
		t.Errorf("listing empty for paying viewer")
	}
	for _, p := range profiles {
		if !p.Discoverable() {
			t.Errorf("non-discoverable profile %s in listing", p.ID)
		}
	}
}
