package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/e2e-harness/internal/domain"
	"github.com/phrazzld/e2e-harness/internal/platform/logger"
	"github.com/phrazzld/e2e-harness/internal/platform/sqlexec"
	"github.com/phrazzld/e2e-harness/internal/store"
	"github.com/spf13/cast"
)

// Statements issued against the users relation.
const (
	selectAllUsers  = "SELECT * FROM users"
	selectUserByID  = "SELECT * FROM users WHERE id = ?"
	insertUser      = "INSERT INTO users (name, age) VALUES (?, ?)"
	deleteUserByID  = "DELETE FROM users WHERE id = ?"
	countUsers      = "SELECT COUNT(*) AS total FROM users"
	countUsersAlias = "total"
)

// UserStore implements store.UserStore over a sqlexec.Executor. It holds no
// state of its own; a fresh UserStore per test is cheap.
type UserStore struct {
	exec   *sqlexec.Executor
	logger *slog.Logger
}

// NewUserStore creates a UserStore that issues statements through exec.
// If logger is nil, a default logger will be used.
func NewUserStore(exec *sqlexec.Executor, logger *slog.Logger) *UserStore {
	if exec == nil {
		panic("exec cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		exec:   exec,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// GetAll implements store.UserStore.GetAll
func (s *UserStore) GetAll(ctx context.Context) ([]domain.User, error) {
	rows, err := s.exec.Query(ctx, selectAllUsers)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		u, err := userFromRow(row)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// GetByID implements store.UserStore.GetByID
// It returns (nil, nil) when no row has the given id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.exec.Query(ctx, selectUserByID, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		log.Debug("user not found", slog.Int64("user_id", id))
		return nil, nil
	}

	u, err := userFromRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create implements store.UserStore.Create
// It checks the name fits the column, inserts the fields as given, and returns
// them merged with the generated id. The new row is not read back.
func (s *UserStore) Create(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := fields.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	id, err := s.exec.Insert(ctx, insertUser, fields.Name, fields.Age)
	if err != nil {
		return nil, err
	}

	log.Debug("user created", slog.Int64("user_id", id))
	return fields.WithID(id), nil
}

// Delete implements store.UserStore.Delete
// Deleting an id that matches no row succeeds without effect.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.exec.Exec(ctx, deleteUserByID, id)
	if err != nil {
		return err
	}

	log.Debug("user delete executed",
		slog.Int64("user_id", id),
		slog.Int64("rows_affected", res.RowsAffected))
	return nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	rows, err := s.exec.Query(ctx, countUsers)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: count returned no rows", store.ErrInvalidEntity)
	}

	n, err := cast.ToInt64E(rows[0][countUsersAlias])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: count value %v", store.ErrInvalidEntity, rows[0][countUsersAlias])
	}
	return n, nil
}

// Query implements store.UserStore.Query
func (s *UserStore) Query(ctx context.Context, statement string, params ...any) ([]store.Row, error) {
	return s.exec.Query(ctx, statement, params...)
}

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		exec:   s.exec.WithDB(tx),
		logger: s.logger,
	}
}
