package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) MarkMember(_ context.Context, id string, since time.Time) (bool, error) {
	u, ok := f.users[id]
	if !ok || u.IsMember {
		return false, nil
	}
	u.IsMember = true
	u.MemberSince = &since
	return true, nil
}

func (f *fakeUserStore) SetApproved(_ context.Context, id string, approved bool) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	u.IsApproved = approved
	return nil
}

func (f *fakeUserStore) SetSuspended(_ context.Context, id string, suspended bool) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	u.IsSuspended = suspended
	return nil
}

func (f *fakeUserStore) ListPending(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if !u.IsApproved {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestUserService(secret string) (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewUserService(store, NewPaymentVerifier(secret), "jwt-secret"), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestUserService("s")
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Email:    "Asha@Example.com",
		Password: "hunter2hunter2",
		Name:     "Asha",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Errorf("email not normalized: %s", user.Email)
	}
	if user.IsApproved || user.IsMember {
		t.Errorf("fresh account should await approval and hold no membership")
	}

	got, token, err := svc.Login(ctx, "asha@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Errorf("login returned wrong user or empty token")
	}

	userID, isAdmin, err := svc.ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != user.ID || isAdmin {
		t.Errorf("claims = (%s, %v), want (%s, false)", userID, isAdmin, user.ID)
	}

	if _, _, err := svc.Login(ctx, "asha@example.com", "wrong-password"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad password: got %v, want ErrValidation", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestUserService("s")
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Password: "longenough", Name: "A"},
		{Email: "not-an-email", Password: "longenough", Name: "A"},
		{Email: "a@b.c", Password: "short", Name: "A"},
		{Email: "a@b.c", Password: "longenough", Name: ""},
	}
	for i, input := range cases {
		if _, err := svc.Register(ctx, input); !errors.Is(err, models.ErrValidation) {
			t.Errorf("case %d: got %v, want ErrValidation", i, err)
		}
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "dup@x.y", Password: "longenough", Name: "A"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "dup@x.y", Password: "longenough", Name: "B"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("duplicate email: got %v, want ErrValidation", err)
	}
}

func TestPurchaseMembershipIdempotent(t *testing.T) {
	svc, store := newTestUserService("secret")
	ctx := context.Background()

	store.users["u1"] = &models.User{ID: "u1", Email: "a@b.c", IsApproved: true}

	sig := signPayload("secret", "mo_1", "mp_1")
	user, err := svc.PurchaseMembership(ctx, "u1", "mo_1", "mp_1", sig)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !user.IsMember || user.MemberSince == nil {
		t.Errorf("membership not recorded")
	}

	if _, err := svc.PurchaseMembership(ctx, "u1", "mo_1", "mp_1", sig); !errors.Is(err, models.ErrAlreadyPaid) {
		t.Errorf("replay: got %v, want ErrAlreadyPaid", err)
	}
	if _, err := svc.PurchaseMembership(ctx, "u1", "mo_1", "mp_1", "bad-sig"); !errors.Is(err, models.ErrPaymentInvalid) {
		t.Errorf("bad signature: got %v, want ErrPaymentInvalid", err)
	}
	if _, err := svc.PurchaseMembership(ctx, "ghost", "mo_2", "mp_2", signPayload("secret", "mo_2", "mp_2")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestMemberCreatedProfileSkipsPayment(t *testing.T) {
	userSvc, store := newTestUserService("secret")
	profileSvc, _, _ := newTestProfileService("secret")
	ctx := context.Background()

	store.users["u1"] = &models.User{ID: "u1", Email: "a@b.c", IsApproved: true}
	sig := signPayload("secret", "mo_1", "mp_1")
	member, err := userSvc.PurchaseMembership(ctx, "u1", "mo_1", "mp_1", sig)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	p, err := profileSvc.Create(ctx, member, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.PaymentRequired || !p.IsPaid || !p.IsApproved {
		t.Errorf("member-created profile should be free and approved, got %+v", p)
	}
}
