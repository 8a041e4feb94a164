package sqlstore

import (
	"fmt"

	"github.com/phrazzld/e2e-harness/internal/domain"
	"github.com/phrazzld/e2e-harness/internal/store"
	"github.com/spf13/cast"
)

// userFromRow is the only place a result row becomes a domain.User.
func userFromRow(row store.Row) (domain.User, error) {
	var u domain.User

	for _, col := range []string{"id", "name", "age"} {
		if _, ok := row[col]; !ok {
			return u, fmt.Errorf("%w: row has no %q column", store.ErrInvalidEntity, col)
		}
	}

	id, err := cast.ToInt64E(row["id"])
	if err != nil {
		return u, fmt.Errorf("%w: id: %v", store.ErrInvalidEntity, err)
	}
	name, err := cast.ToStringE(row["name"])
	if err != nil {
		return u, fmt.Errorf("%w: name: %v", store.ErrInvalidEntity, err)
	}
	age, err := cast.ToIntE(row["age"])
	if err != nil {
		return u, fmt.Errorf("%w: age: %v", store.ErrInvalidEntity, err)
	}

	u.ID, u.Name, u.Age = id, name, age
	return u, nil
}
