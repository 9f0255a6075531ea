package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	iddomain "github.com/ghuser/fournil/services/identity/domain"
	"github.com/ghuser/fournil/services/identity/domain/models"
	"github.com/ghuser/fournil/services/identity/infrastructure/persistence/memory"
)

func newTestIdentity() *IdentityService {
	return NewIdentityService(memory.NewShopStore(), memory.NewUserStore())
}

func register(t *testing.T, svc *IdentityService, email string) (*models.Shop, *models.User) {
	t.Helper()
	shop, owner, err := svc.Register(context.Background(), RegisterInput{
		ShopName: "Au Bon Pain",
		UserName: "Camille",
		Email:    email,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return shop, owner
}

func TestRegisterCreatesShopAndOwner(t *testing.T) {
	svc := newTestIdentity()
	shop, owner, err := svc.Register(context.Background(), RegisterInput{
		ShopName: "Au Bon Pain",
		UserName: "Camille",
		Email:    "Camille@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if shop.Currency != "EUR" || shop.DefaultVATRate != 5.5 {
		t.Errorf("defaults = %s/%v, want EUR/5.5", shop.Currency, shop.DefaultVATRate)
	}
	if len(shop.InviteCode) != 8 {
		t.Errorf("invite code = %q, want 8 chars", shop.InviteCode)
	}
	if !owner.IsOwner() {
		t.Error("registering user must be owner")
	}
	if owner.Email != "camille@example.com" {
		t.Errorf("email = %q, want lowercased", owner.Email)
	}
	if owner.PasswordHash == "correct-horse" {
		t.Error("password must not be stored in clear")
	}
}

func TestJoinViaInviteCode(t *testing.T) {
	svc := newTestIdentity()
	shop, _ := register(t, svc, "owner@example.com")

	joined, member, err := svc.Join(context.Background(), JoinInput{
		InviteCode: shop.InviteCode,
		UserName:   "Jules",
		Email:      "jules@example.com",
		Password:   "baguette-magique",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != shop.ID {
		t.Error("joined wrong shop")
	}
	if member.IsOwner() {
		t.Error("joining user must be a member, not owner")
	}

	_, _, err = svc.Join(context.Background(), JoinInput{
		InviteCode: "nope1234",
		UserName:   "Eve",
		Email:      "eve@example.com",
		Password:   "password123",
	})
	if !errors.Is(err, iddomain.ErrInvalidInviteCode) {
		t.Fatalf("bad code err = %v, want ErrInvalidInviteCode", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestIdentity()
	register(t, svc, "owner@example.com")

	u, err := svc.Login(context.Background(), "owner@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "owner@example.com" {
		t.Errorf("email = %q", u.Email)
	}

	if _, err := svc.Login(context.Background(), "owner@example.com", "wrong"); !errors.Is(err, iddomain.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, iddomain.ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

// recordingShopStore remembers the last shop handed to Save.
type recordingShopStore struct {
	*memory.ShopStore
	lastSaved uuid.UUID
}

func (s *recordingShopStore) Save(ctx context.Context, shop *models.Shop) error {
	s.lastSaved = shop.ID
	return s.ShopStore.Save(ctx, shop)
}

func TestRegisterDuplicateEmailLeavesNoShop(t *testing.T) {
	shops := &recordingShopStore{ShopStore: memory.NewShopStore()}
	svc := NewIdentityService(shops, memory.NewUserStore())
	ctx := context.Background()
	register(t, svc, "owner@example.com")

	_, _, err := svc.Register(ctx, RegisterInput{
		ShopName: "Copycat",
		UserName: "Eve",
		Email:    "owner@example.com",
		Password: "password123",
	})
	if !errors.Is(err, iddomain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	if _, err := shops.GetByID(ctx, shops.lastSaved); !errors.Is(err, iddomain.ErrShopNotFound) {
		t.Errorf("orphan shop survived the failed registration: %v", err)
	}
}

func TestEmailUniqueness(t *testing.T) {
	svc := newTestIdentity()
	shop, _ := register(t, svc, "owner@example.com")

	_, _, err := svc.Join(context.Background(), JoinInput{
		InviteCode: shop.InviteCode,
		UserName:   "Imposter",
		Email:      "owner@example.com",
		Password:   "password123",
	})
	if !errors.Is(err, iddomain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestTeamManagement(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()
	shop, owner := register(t, svc, "owner@example.com")

	_, member, err := svc.Join(ctx, JoinInput{
		InviteCode: shop.InviteCode,
		UserName:   "Jules",
		Email:      "jules@example.com",
		Password:   "baguette-magique",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	team, err := svc.Team(ctx, shop.ID)
	if err != nil {
		t.Fatalf("team: %v", err)
	}
	if len(team) != 2 {
		t.Fatalf("team size = %d, want 2", len(team))
	}

	// members cannot remove anyone
	if err := svc.RemoveUser(ctx, shop.ID, member.ID, owner.ID); !errors.Is(err, iddomain.ErrNotOwner) {
		t.Fatalf("member removal err = %v, want ErrNotOwner", err)
	}
	// the owner cannot be removed
	if err := svc.RemoveUser(ctx, shop.ID, owner.ID, owner.ID); !errors.Is(err, iddomain.ErrOwnerRemoval) {
		t.Fatalf("owner removal err = %v, want ErrOwnerRemoval", err)
	}
	if err := svc.RemoveUser(ctx, shop.ID, owner.ID, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	team, err = svc.Team(ctx, shop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(team) != 1 {
		t.Fatalf("team size = %d, want 1", len(team))
	}
}

func TestRotateInviteCode(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()
	shop, owner := register(t, svc, "owner@example.com")
	old := shop.InviteCode

	rotated, err := svc.RotateInviteCode(ctx, shop.ID, owner.ID)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.InviteCode == old {
		t.Error("invite code did not change")
	}

	if _, _, err := svc.Join(ctx, JoinInput{
		InviteCode: old,
		UserName:   "Late",
		Email:      "late@example.com",
		Password:   "password123",
	}); !errors.Is(err, iddomain.ErrInvalidInviteCode) {
		t.Fatalf("old code err = %v, want ErrInvalidInviteCode", err)
	}
}

func TestUpdateShopOwnerOnly(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()
	shop, owner := register(t, svc, "owner@example.com")
	_, member, err := svc.Join(ctx, JoinInput{
		InviteCode: shop.InviteCode,
		UserName:   "Jules",
		Email:      "jules@example.com",
		Password:   "baguette-magique",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateShop(ctx, shop.ID, member.ID, ShopInput{Name: "Chez Jules"}); !errors.Is(err, iddomain.ErrNotOwner) {
		t.Fatalf("member update err = %v, want ErrNotOwner", err)
	}

	updated, err := svc.UpdateShop(ctx, shop.ID, owner.ID, ShopInput{Name: "Fournil du Coin", Currency: "EUR", DefaultVATRate: 10})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Fournil du Coin" || updated.DefaultVATRate != 10 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdateShopZeroVATRateSticks(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()
	shop, owner := register(t, svc, "owner@example.com")
	if shop.DefaultVATRate != 5.5 {
		t.Fatalf("default VAT = %v, want 5.5", shop.DefaultVATRate)
	}

	updated, err := svc.UpdateShop(ctx, shop.ID, owner.ID, ShopInput{
		Name:           shop.Name,
		Currency:       "EUR",
		DefaultVATRate: 0,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DefaultVATRate != 0 {
		t.Errorf("DefaultVATRate = %v, want 0", updated.DefaultVATRate)
	}
}

func TestUpdateShopRejectsInvalidSettings(t *testing.T) {
	svc := newTestIdentity()
	ctx := context.Background()
	shop, owner := register(t, svc, "owner@example.com")

	for _, in := range []ShopInput{
		{Name: "", Currency: "EUR", DefaultVATRate: 10},
		{Name: "Fournil", Currency: "EURO", DefaultVATRate: 10},
		{Name: "Fournil", Currency: "EUR", DefaultVATRate: 120},
	} {
		if _, err := svc.UpdateShop(ctx, shop.ID, owner.ID, in); !errors.Is(err, iddomain.ErrInvalidShop) {
			t.Errorf("UpdateShop(%+v) err = %v, want ErrInvalidShop", in, err)
		}
	}

	got, err := svc.GetShop(ctx, shop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Au Bon Pain" || got.DefaultVATRate != 5.5 {
		t.Errorf("rejected update changed settings: %+v", got)
	}
}

func TestGetShopUnknown(t *testing.T) {
	svc := newTestIdentity()
	if _, err := svc.GetShop(context.Background(), uuid.New()); !errors.Is(err, iddomain.ErrShopNotFound) {
		t.Fatalf("err = %v, want ErrShopNotFound", err)
	}
}
