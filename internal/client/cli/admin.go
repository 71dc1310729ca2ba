package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Users opens the user administration view. "users delete <id>" removes an
// account and "users role <id> <roleID>" changes its role.
func (a *App) Users(ctx context.Context, args []string) error {
	if _, ok := a.visit(ctx, "/admin/users"); !ok {
		return nil
	}
	if len(args) == 0 {
		return a.showUsers(ctx)
	}
	if !a.isAdmin() {
		printlnFn("Admin access required.")
		return nil
	}

	switch args[0] {
	case "delete":
		id, err := argID(args[1:], "users delete <id>")
		if err != nil {
			return err
		}
		if err := a.users.Delete(ctx, id); err != nil {
			return err
		}
		printlnFn("Deleted user", id)
		return nil

	case "role":
		id, err := argID(args[1:], "users role <id> <roleID>")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return usage("users role <id> <roleID>")
		}
		role, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid role %q", args[2])
		}
		if err := a.users.UpdateRole(ctx, id, role); err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("User %d now has role %d", id, role))
		return nil

	default:
		return usage("users [delete <id> | role <id> <roleID>]")
	}
}

func (a *App) showUsers(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin access required.")
		return nil
	}
	list, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		printlnFn(fmt.Sprintf("#%d %s", u.ID, describeUser(u)))
	}
	return nil
}
