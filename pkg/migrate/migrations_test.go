package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestCartMigrationEnforcesOneRowPerProduct(t *testing.T) {
	content := readMigration(t, "create_cart_items")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CONSTRAINT cart_items_user_product_key UNIQUE (user_id, product_id)",
		"CHECK (quantity > 0)",
		"REFERENCES users(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS cart_items",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestFavoritesMigrationEnforcesMembership(t *testing.T) {
	content := readMigration(t, "create_favorites")
	if !strings.Contains(content, "CONSTRAINT favorites_user_product_key UNIQUE (user_id, product_id)") {
		t.Error("favorites must be unique per user and product")
	}
	if strings.Contains(content, "quantity") {
		t.Error("favorites carry no quantity")
	}
}

func TestOrdersMigrationCreatesHeaderAndItems(t *testing.T) {
	content := readMigration(t, "create_orders")
	for _, sub := range []string{
		"CREATE TYPE order_status AS ENUM ('processing', 'shipped', 'delivered')",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"REFERENCES orders(id) ON DELETE CASCADE",
		"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentMethodsMigrationAllowsSingleDefault(t *testing.T) {
	content := readMigration(t, "create_payment_methods")
	for _, sub := range []string{
		"CREATE TYPE payment_method_type AS ENUM ('card', 'cash', 'online')",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_methods_one_default ON payment_methods (user_id) WHERE is_default",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
