package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// User is a row of the users relation. ID is generated by the store on
// insert and is never chosen or reused by the client.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// UserFields is a User without its store-generated identity: the input of a
// create operation. Only the column width is checked client-side; an empty
// name or a negative age goes to the store, whose constraints decide.
type UserFields struct {
	Name string `json:"name" validate:"max=255"`
	Age  int    `json:"age"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the fields before they are sent to the store.
func (f UserFields) Validate() error {
	err := fieldValidator().Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
	}

	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// WithID merges the fields with a store-generated id.
func (f UserFields) WithID(id int64) *User {
	return &User{ID: id, Name: f.Name, Age: f.Age}
}

// Fields returns the user without its id.
func (u User) Fields() UserFields {
	return UserFields{Name: u.Name, Age: u.Age}
}
