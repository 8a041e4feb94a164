package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/e2e-harness/internal/domain"
	"github.com/phrazzld/e2e-harness/internal/store"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var errUserNotFound = errors.New("user not found")

func (a *app) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Read and write the users relation",
	}
	cmd.AddCommand(
		a.usersCountCommand(),
		a.usersListCommand(),
		a.usersGetCommand(),
		a.usersCreateCommand(),
		a.usersDeleteCommand(),
	)
	return cmd
}

// withUsers runs fn with a user façade that is torn down when fn returns.
func (a *app) withUsers(cmd *cobra.Command, fn func(context.Context, store.UserStore) error) error {
	return a.db.Users.Use(cmd.Context(), fn)
}

func (a *app) usersCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withUsers(cmd, func(ctx context.Context, users store.UserStore) error {
				n, err := users.Count(ctx)
				if err != nil {
					return err
				}
				return a.printCount(n)
			})
		},
	}
}

func (a *app) usersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every user in store order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withUsers(cmd, func(ctx context.Context, users store.UserStore) error {
				all, err := users.GetAll(ctx)
				if err != nil {
					return err
				}
				return a.printUsers(all)
			})
		},
	}
}

func (a *app) usersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withUsers(cmd, func(ctx context.Context, users store.UserStore) error {
				u, err := users.GetByID(ctx, id)
				if err != nil {
					return err
				}
				if u == nil {
					return fmt.Errorf("%w: %d", errUserNotFound, id)
				}
				return a.printUser(*u)
			})
		},
	}
}

func (a *app) usersCreateCommand() *cobra.Command {
	var fields domain.UserFields

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Insert a user and print it with its generated id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withUsers(cmd, func(ctx context.Context, users store.UserStore) error {
				u, err := users.Create(ctx, fields)
				if err != nil {
					return err
				}
				return a.printUser(*u)
			})
		},
	}
	cmd.Flags().StringVar(&fields.Name, "name", "", "User name")
	cmd.Flags().IntVar(&fields.Age, "age", 0, "User age")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) usersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user; a missing id is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withUsers(cmd, func(ctx context.Context, users store.UserStore) error {
				return users.Delete(ctx, id)
			})
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := cast.ToInt64E(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}
