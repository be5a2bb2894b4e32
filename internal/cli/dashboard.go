package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/target/mmk-backoffice/internal/domain/model"
	"github.com/target/mmk-backoffice/internal/util"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show platform counters and recent activity",
		Args:  cobra.NoArgs,
		RunE: rootOpts.runE(func(cmd *cobra.Command, _ []string, env *Env) error {
			d, err := env.Services.Dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}
			p := rootOpts.Printer()
			out := dashboardResult{Stats: d.Stats, Recent: d.Recent, RecentUnavailable: d.RecentUnavailable}
			if out.Recent == nil {
				out.Recent = []model.AuditLogEntry{}
			}
			return p.Result(out, func() error {
				s := d.Stats
				if err := p.Table([]string{"Area", "Total", "Details"}, [][]string{
					{"Organizations", itoa(s.Organizations.Total), "active " + itoa(s.Organizations.Active) +
						", suspended " + itoa(s.Organizations.Suspended) +
						", banned " + itoa(s.Organizations.Banned) +
						", new this month " + itoa(s.Organizations.NewThisMonth)},
					{"Users", itoa(s.Users.Total), "new this month " + itoa(s.Users.NewThisMonth)},
					{"Appointments", itoa(s.Appointments.Total), "this month " + itoa(s.Appointments.ThisMonth)},
				}); err != nil {
					return err
				}
				switch {
				case d.RecentUnavailable:
					return p.Note("Recent activity is unavailable right now.")
				case len(d.Recent) == 0:
					return p.Note("No recent activity.")
				default:
					return auditTable(p, d.Recent)
				}
			})
		}),
	}
	return guarded(cmd, guardAuthenticated)
}

type dashboardResult struct {
	Stats             model.DashboardStats  `json:"stats"`
	Recent            []model.AuditLogEntry `json:"recent"`
	RecentUnavailable bool                  `json:"recent_unavailable"`
}

func auditTable(p *Printer, entries []model.AuditLogEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			util.FormatDateTime(e.CreatedAt),
			e.ActionLabel(),
			e.EntityType + " " + e.EntityID,
			e.AdminName,
			e.IPAddress,
		})
	}
	return p.Table([]string{"When", "Action", "Entity", "Admin", "IP"}, rows)
}

func itoa(n int) string { return strconv.Itoa(n) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// listResult is the JSON shape of a paged list.
type listResult[T any] struct {
	Items      []T              `json:"items"`
	Pagination model.Pagination `json:"pagination"`
}

func pageResult[T any](page model.Page[T]) listResult[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return listResult[T]{Items: items, Pagination: page.Pagination}
}

// pageFooter prints the range shown and how to reach the next page.
func pageFooter(p *Printer, pg model.Pagination) error {
	if pg.Total == 0 {
		return nil
	}
	if pg.HasNext() {
		return p.Note("%d-%d of %d (next: --page %d)", pg.StartIndex(), pg.EndIndex(), pg.Total, pg.Page+1)
	}
	return p.Note("%d-%d of %d", pg.StartIndex(), pg.EndIndex(), pg.Total)
}
