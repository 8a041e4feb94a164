package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/phrazzld/e2e-harness/internal/domain"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printPing(r pingResult) error {
	if a.output == outputJSON {
		return a.printJSON(r)
	}
	green.Fprint(a.stdout, "ok")
	fmt.Fprintf(a.stdout, " %s (worker %s, %s)\n", r.Target, r.Worker, r.Duration)
	return nil
}

func (a *app) printCount(n int64) error {
	if a.output == outputJSON {
		return a.printJSON(map[string]int64{"count": n})
	}
	fmt.Fprintln(a.stdout, n)
	return nil
}

func (a *app) printUser(u domain.User) error {
	if a.output == outputJSON {
		return a.printJSON(u)
	}
	bold.Fprintf(a.stdout, "%d", u.ID)
	fmt.Fprintf(a.stdout, " %s ", u.Name)
	cyan.Fprintf(a.stdout, "%d\n", u.Age)
	return nil
}

func (a *app) printUsers(users []domain.User) error {
	if a.output == outputJSON {
		return a.printJSON(users)
	}
	if len(users) == 0 {
		fmt.Fprintln(a.stdout, "No users")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%d\n", u.ID, u.Name, u.Age)
	}
	return w.Flush()
}
