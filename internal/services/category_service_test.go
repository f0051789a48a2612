package services

import (
	"testing"
	"time"

	"paisatrack/internal/models"
	"paisatrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries", models.KindExpense)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected a generated category ID")
		}
		if cat.Name != "Groceries" || cat.Kind != models.KindExpense {
			t.Errorf("category = %+v", cat)
		}
	})

	t.Run("duplicate name and kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Food", models.KindExpense)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Food", models.KindExpense)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same name allowed across kinds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Freelance", models.KindIncome)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Freelance", models.KindExpense)
		testutil.AssertNoError(t, err)
	})

	t.Run("same name allowed across users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Rent", models.KindExpense)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(other.ID, "Rent", models.KindExpense)
		testutil.AssertNoError(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "", models.KindExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestCategoryWithName(t, db, user.ID, "Travel", models.KindExpense)
	testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.KindExpense)
	testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.KindIncome)

	t.Run("all, ordered by name", func(t *testing.T) {
		cats, err := svc.GetUserCategories(user.ID, nil)
		testutil.AssertNoError(t, err)

		if len(cats) != 3 {
			t.Fatalf("got %d categories, want 3", len(cats))
		}
		if cats[0].Name != "Food" || cats[2].Name != "Travel" {
			t.Errorf("unexpected order: %s, %s, %s", cats[0].Name, cats[1].Name, cats[2].Name)
		}
	})

	t.Run("filtered by kind", func(t *testing.T) {
		kind := models.KindIncome
		cats, err := svc.GetUserCategories(user.ID, &kind)
		testutil.AssertNoError(t, err)

		if len(cats) != 1 || cats[0].Name != "Salary" {
			t.Errorf("got %+v, want only Salary", cats)
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Fod", models.KindExpense)

		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Food")
		testutil.AssertNoError(t, err)
		if updated.Name != "Food" {
			t.Errorf("name = %q, want Food", updated.Name)
		}
	})

	t.Run("rename onto existing name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.KindExpense)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Eats", models.KindExpense)

		_, err := svc.UpdateCategory(user.ID, cat.ID, "Food")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("other user's category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, models.KindExpense)

		_, err := svc.UpdateCategory(user.ID, cat.ID, "Stolen")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("transactions keep their reference", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.KindExpense)
		txn := testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.KindExpense, 1000, time.Now().UTC())

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var reloaded models.Transaction
		if err := db.First(&reloaded, "id = ?", txn.ID).Error; err != nil {
			t.Fatalf("transaction lookup failed: %v", err)
		}
		if reloaded.CategoryID == nil || *reloaded.CategoryID != cat.ID {
			t.Errorf("category reference lost: %v", reloaded.CategoryID)
		}
	})

	t.Run("name freed for reuse", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.KindExpense)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.CreateCategory(user.ID, "Food", models.KindExpense)
		testutil.AssertNoError(t, err)
	})
}
