package repositories

import (
	"context"
	"errors"
	"testing"

	"shop-api/models"
	"shop-api/testutil"

	"gorm.io/gorm"
)

func TestCartRepositoryGetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	repo := NewCartRepository(db)

	first, err := repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same cart, got %d and %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one cart row, got %d", count)
	}
}

func TestCartRepositoryAddItemUpserts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	company := testutil.CreateUser(t, db, "acme", models.RoleCompany)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	product := testutil.CreateProduct(t, db, company.ID, "Keyboard", "10", 5)
	repo := NewCartRepository(db)

	cart, err := repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	for _, qty := range []int{1, 2, 4} {
		if err := repo.AddItem(ctx, cart.ID, product.ID, qty); err != nil {
			t.Fatalf("AddItem(%d): %v", qty, err)
		}
	}

	loaded, err := repo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(loaded.Items))
	}
	if loaded.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", loaded.Items[0].Quantity)
	}
	if loaded.Items[0].Product == nil || loaded.Items[0].Product.Name != "Keyboard" {
		t.Fatalf("product not preloaded: %+v", loaded.Items[0].Product)
	}
}

func TestCartRepositoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	company := testutil.CreateUser(t, db, "acme", models.RoleCompany)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	product := testutil.CreateProduct(t, db, company.ID, "Keyboard", "10", 5)
	repo := NewCartRepository(db)

	cart, err := repo.GetOrCreate(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := repo.AddItem(ctx, cart.ID, product.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	loaded, err := repo.FindByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	itemID := loaded.Items[0].ID

	t.Run("find", func(t *testing.T) {
		if _, err := repo.FindOwnedItem(ctx, bob.ID, itemID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("bob should not see alice's line, got %v", err)
		}
		item, err := repo.FindOwnedItem(ctx, alice.ID, itemID)
		if err != nil {
			t.Fatalf("FindOwnedItem: %v", err)
		}
		if item.Product == nil || item.Product.ID != product.ID {
			t.Fatalf("product not preloaded: %+v", item.Product)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := repo.RemoveOwnedItem(ctx, bob.ID, itemID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("bob should not remove alice's line, got %v", err)
		}
		if err := repo.RemoveOwnedItem(ctx, alice.ID, itemID); err != nil {
			t.Fatalf("RemoveOwnedItem: %v", err)
		}
		if err := repo.RemoveOwnedItem(ctx, alice.ID, itemID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("expected not found on second remove, got %v", err)
		}
	})
}

func TestProductRepositoryDecrementStock(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	company := testutil.CreateUser(t, db, "acme", models.RoleCompany)
	product := testutil.CreateProduct(t, db, company.ID, "Keyboard", "10", 3)
	repo := NewProductRepository(db)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	if err != nil || !ok {
		t.Fatalf("expected decrement to apply, ok=%v err=%v", ok, err)
	}

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	if ok {
		t.Fatal("expected the stock guard to reject the decrement")
	}

	if got := testutil.ProductStock(t, db, product.ID); got != 1 {
		t.Fatalf("stock = %d, want 1", got)
	}
}

func TestProductRepositoryFindAllFilter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	acme := testutil.CreateUser(t, db, "acme", models.RoleCompany)
	globex := testutil.CreateUser(t, db, "globex", models.RoleCompany)
	testutil.CreateProduct(t, db, acme.ID, "Keyboard", "10", 3)
	testutil.CreateProduct(t, db, acme.ID, "Mouse", "4", 3)
	testutil.CreateProduct(t, db, globex.ID, "Monitor", "150", 1)
	repo := NewProductRepository(db)

	all, err := repo.FindAll(ctx, nil)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	acmeOnly, err := repo.FindAll(ctx, &acme.ID)
	if err != nil {
		t.Fatalf("FindAll(acme): %v", err)
	}
	if len(acmeOnly) != 2 {
		t.Fatalf("expected 2 acme products, got %d", len(acmeOnly))
	}
	for _, p := range acmeOnly {
		if p.CompanyID != acme.ID {
			t.Fatalf("product %d belongs to company %d", p.ID, p.CompanyID)
		}
	}
}
