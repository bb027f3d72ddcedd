package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/session"
)

func init() { //nolint: gochecknoinits
	routesCmd.Flags().StringVar(&routesRole, "role", "guest", "Role to decide for: guest, volunteer, organization or admin")

	rootCmd.AddCommand(routesCmd)
}

var (
	routesRole string

	routesCmd = &cobra.Command{
		Use:   "routes",
		Short: "Print the route table and the guard decision of each route for a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, ok := models.ParseRole(routesRole)
			if !ok {
				return fmt.Errorf("unknown role %q", routesRole) //nolint:err113
			}

			return printRoutes(cmd, role)
		},
	}
)

// stateFor returns a settled session signed in with role, signed out for RoleGuest.
func stateFor(role models.Role) session.State {
	if role == models.RoleGuest {
		return session.State{Initialized: true}
	}

	return session.State{
		User:            &models.UserProfile{ID: "preview", Role: role},
		Token:           "preview",
		IsAuthenticated: true,
		Initialized:     true,
	}
}

// newRoutesTable renders left-aligned, unbordered columns.
func newRoutesTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

func printRoutes(cmd *cobra.Command, role models.Role) error {
	state := stateFor(role)

	table := newRoutesTable(cmd.OutOrStdout())
	table.Header("name", "pattern", "allowed", "decision", "location")

	for _, route := range guard.DefaultRoutes() {
		allowed := make([]string, 0, len(route.AllowedRoles))
		for _, r := range route.AllowedRoles {
			allowed = append(allowed, r.String())
		}

		if route.Guest {
			allowed = []string{"guest-only"}
		}

		// wildcards are decided on a sample path below them
		path := strings.TrimSuffix(route.Pattern, "*") + strings.Repeat("sample", strings.Count(route.Pattern, "*"))
		path = strings.ReplaceAll(path, ":id", "1")

		d := route.Decide(state, path, "")

		if err := table.Append(route.Name, route.Pattern, strings.Join(allowed, ","), d.Kind.String(), d.Location); err != nil {
			return fmt.Errorf("route %s: %w", route.Name, err)
		}
	}

	return table.Render()
}
