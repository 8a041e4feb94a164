package testdb

import (
	"context"
	"fmt"

	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/domain"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
)

// ResetUsers empties the users relation.
func ResetUsers(ctx context.Context, exec *sqlexec.Executor) error {
	if _, err := exec.Exec(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("failed to reset users: %w", err)
	}
	return nil
}

// SeedUsers inserts users with their ids as given. On PostgreSQL the id
// sequence is moved past the highest id so later inserts do not collide.
func SeedUsers(ctx context.Context, exec *sqlexec.Executor, users ...domain.User) error {
	for _, u := range users {
		if _, err := exec.Exec(ctx, "INSERT INTO users (id, name, age) VALUES (?, ?, ?)", u.ID, u.Name, u.Age); err != nil {
			return fmt.Errorf("failed to seed user %d: %w", u.ID, err)
		}
	}

	if exec.Dialect().Name() == config.DriverPostgres && len(users) > 0 {
		const resync = "SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))"
		if _, err := exec.Query(ctx, resync); err != nil {
			return fmt.Errorf("failed to resync id sequence: %w", err)
		}
	}
	return nil
}
