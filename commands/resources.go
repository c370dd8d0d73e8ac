package commands

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IsaacT30/airport-console/api"
	"github.com/IsaacT30/airport-console/core/auth/session"
	"github.com/IsaacT30/airport-console/core/rest"
	"github.com/IsaacT30/airport-console/errors"
)

// crudder erases the element type of an api.Resource so one command tree
// serves every collection.
type crudder interface {
	list(ctx context.Context, filters url.Values) (any, *rest.Page, error)
	get(ctx context.Context, id int64) (any, error)
	create(ctx context.Context, raw []byte) (any, error)
	update(ctx context.Context, id int64, raw []byte) (any, error)
	patch(ctx context.Context, id int64, fields map[string]any) (any, error)
	remove(ctx context.Context, id int64) error
}

type typed[T any] struct {
	res *api.Resource[T]
}

func (t typed[T]) list(ctx context.Context, filters url.Values) (any, *rest.Page, error) {
	items, page, err := t.res.List(ctx, filters)
	return items, page, err
}

func (t typed[T]) get(ctx context.Context, id int64) (any, error) {
	return t.res.Get(ctx, id)
}

func (t typed[T]) create(ctx context.Context, raw []byte) (any, error) {
	var in T
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, errors.BadRequest("invalid record: %v", err)
	}
	return t.res.Create(ctx, in)
}

func (t typed[T]) update(ctx context.Context, id int64, raw []byte) (any, error) {
	var in T
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, errors.BadRequest("invalid record: %v", err)
	}
	return t.res.Update(ctx, id, in)
}

func (t typed[T]) patch(ctx context.Context, id int64, fields map[string]any) (any, error) {
	return t.res.Patch(ctx, id, fields)
}

func (t typed[T]) remove(ctx context.Context, id int64) error {
	return t.res.Delete(ctx, id)
}

// resourceCmd builds the command tree for one collection: list, get,
// create, update and delete, each gated on the operator's role before
// the backend is asked.
func resourceCmd(open opener, plural, singular string, pick func(*api.Client) crudder, extras ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   plural,
		Short: "Manage " + plural,
	}

	cmd.AddCommand(listCmd(open, plural, pick))
	cmd.AddCommand(getCmd(open, singular, pick))
	cmd.AddCommand(createCmd(open, singular, pick))
	cmd.AddCommand(updateCmd(open, singular, pick))
	cmd.AddCommand(deleteCmd(open, singular, pick))
	cmd.AddCommand(extras...)
	return cmd
}

func listCmd(open opener, plural string, pick func(*api.Client) crudder) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + plural,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "view "+plural, session.Role.CanView); err != nil {
				return err
			}

			query, err := parseFilters(filters)
			if err != nil {
				return err
			}

			items, page, err := pick(c.client).list(ctx, query)
			if err != nil {
				return err
			}
			if err := c.printJSON(items); err != nil {
				return err
			}
			if page != nil && page.Next != "" {
				c.errln("More results available; the backend paginates this collection.")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as key=value, repeatable")
	return cmd
}

func getCmd(open opener, singular string, pick func(*api.Client) crudder) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "view a "+singular, session.Role.CanView); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			item, err := pick(c.client).get(ctx, id)
			if err != nil {
				return err
			}
			return c.printJSON(item)
		},
	}
}

func createCmd(open opener, singular string, pick func(*api.Client) crudder) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + singular + " from a JSON record",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "create a "+singular, session.Role.CanCreate); err != nil {
				return err
			}

			raw, err := readRecord(file)
			if err != nil {
				return err
			}

			item, err := pick(c.client).create(ctx, raw)
			if err != nil {
				return err
			}
			return c.printJSON(item)
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "JSON record path, - for stdin")
	return cmd
}

func updateCmd(open opener, singular string, pick func(*api.Client) crudder) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a " + singular + " with a JSON record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "edit a "+singular, session.Role.CanEdit); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			raw, err := readRecord(file)
			if err != nil {
				return err
			}

			item, err := pick(c.client).update(ctx, id, raw)
			if err != nil {
				return err
			}
			return c.printJSON(item)
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "JSON record path, - for stdin")
	return cmd
}

func deleteCmd(open opener, singular string, pick func(*api.Client) crudder) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "delete a "+singular, session.Role.CanDelete); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := pick(c.client).remove(ctx, id); err != nil {
				return err
			}
			c.println("Deleted.")
			return nil
		},
	}
}

// setStatusCmd is the flights extra: a status transition with its own
// capability, distinct from a full edit.
func setStatusCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change a flight's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.authorize(ctx, "change flight status", session.Role.CanChangeStatus); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flight, err := c.client.Flights.Patch(ctx, id, map[string]any{"status": args[1]})
			if err != nil {
				return err
			}
			return c.printJSON(flight)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequest("invalid id %q", s)
	}
	return id, nil
}

func parseFilters(filters []string) (url.Values, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, errors.BadRequest("invalid filter %q, want key=value", f)
		}
		query.Add(key, value)
	}
	return query, nil
}

func readRecord(file string) ([]byte, error) {
	if file == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.BadRequest("cannot read record from stdin: %v", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.BadRequest("cannot read record: %v", err)
	}
	return raw, nil
}
