package notify

import (
	"testing"

	"hearth/internal/models"
	"hearth/internal/testutil"
)

func TestStoreDeliver(t *testing.T) {
	t.Run("stores_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		d := NewStoreDelivery(db)
		user := testutil.CreateTestUser(t, db)

		err := d.Deliver(Notification{
			ID:     "alert-1",
			UserID: user.ID,
			Title:  "Budget exceeded",
			Body:   "Groceries spending reached 1100 of your 1000 budget this month.",
			Route:  "/budgets/1",
		})
		testutil.AssertNoError(t, err)

		var stored models.Notification
		if err := db.First(&stored, "id = ?", "alert-1").Error; err != nil {
			t.Fatalf("failed to load notification: %v", err)
		}
		if stored.UserID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, stored.UserID)
		}
	})

	t.Run("duplicate_id_is_a_no_op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		d := NewStoreDelivery(db)
		user := testutil.CreateTestUser(t, db)

		first := Notification{ID: "alert-dup", UserID: user.ID, Title: "first"}
		second := Notification{ID: "alert-dup", UserID: user.ID, Title: "second"}
		testutil.AssertNoError(t, d.Deliver(first))
		testutil.AssertNoError(t, d.Deliver(second))

		var count int64
		if err := db.Model(&models.Notification{}).Where("id = ?", "alert-dup").Count(&count).Error; err != nil {
			t.Fatalf("failed to count notifications: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 stored notification, got %d", count)
		}

		var stored models.Notification
		if err := db.First(&stored, "id = ?", "alert-dup").Error; err != nil {
			t.Fatalf("failed to load notification: %v", err)
		}
		if stored.Title != "first" {
			t.Errorf("duplicate delivery must not overwrite, got title %q", stored.Title)
		}
	})

	t.Run("empty_id_gets_generated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		d := NewStoreDelivery(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, d.Deliver(Notification{UserID: user.ID, Title: "ad hoc"}))
		testutil.AssertNoError(t, d.Deliver(Notification{UserID: user.ID, Title: "ad hoc"}))

		var count int64
		if err := db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count notifications: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 notifications with generated ids, got %d", count)
		}
	})
}
