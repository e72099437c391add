package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"accountdesk/internal/app"
	assignmentmodels "accountdesk/internal/assignment/models"
	"accountdesk/internal/reporting"
	"accountdesk/pkg/domain"
)

const (
	outText = "text"
	outJSON = "json"

	birthDateLayout = "2006-01-02"
)

type opener func(ctx context.Context) (*app.App, error)

type cli struct {
	open opener
	out  string
}

// withApp opens the application for one command and closes it afterwards.
func (c *cli) withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	a, err := c.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.WithoutCancel(cmd.Context())); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func (c *cli) print(w io.Writer, v any, text func(io.Writer) error) error {
	if c.out == outJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open, out: outText}

	root := &cobra.Command{
		Use:           "accountdesk",
		Short:         "Console for registering managers, assigning clients and printing reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.out != outText && c.out != outJSON {
				return fmt.Errorf("--out must be %s or %s", outText, outJSON)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.out, "out", c.out, "output format: text|json")

	managerCmd := &cobra.Command{Use: "manager", Short: "Manager operations"}
	managerCmd.AddCommand(c.managerRegisterCmd())

	clientCmd := &cobra.Command{Use: "client", Short: "Client operations"}
	clientCmd.AddCommand(c.clientAssignCmd())

	reportCmd := &cobra.Command{Use: "report", Short: "Read-only reports"}
	reportCmd.AddCommand(c.reportManagerCmd(), c.reportSegmentsCmd())

	rosterCmd := &cobra.Command{Use: "roster", Short: "Roster maintenance"}
	rosterCmd.AddCommand(c.rosterRepairCmd())

	root.AddCommand(managerCmd, clientCmd, reportCmd, rosterCmd)
	return root
}

func (c *cli) managerRegisterCmd() *cobra.Command {
	var name, region, segment string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			seg, err := domain.ParseSegment(segment)
			if err != nil {
				return err
			}
			reg, err := domain.ParseRegion(region)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				m, err := a.Managers.Register(cmd.Context(), name, reg, seg)
				if err != nil {
					return err
				}
				return c.print(cmd.OutOrStdout(), m, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s registered (%s, %s) id=%s\n", m.Name, m.Region, m.Segment, m.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "manager name")
	cmd.Flags().StringVar(&region, "region", "", "branch state, or \"general\" for every region")
	cmd.Flags().StringVar(&segment, "segment", "", "Retail|Exclusive|Premium|Private")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("segment")
	return cmd
}

func (c *cli) clientAssignCmd() *cobra.Command {
	var name, taxID, income, region, birthDate string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Register a client and assign it to the least-loaded eligible manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := domain.ParseIncome(income)
			if err != nil {
				return err
			}
			born, err := time.Parse(birthDateLayout, strings.TrimSpace(birthDate))
			if err != nil {
				return fmt.Errorf("--birth-date must be formatted as YYYY-MM-DD")
			}
			req := assignmentmodels.AssignRequest{
				Name:      name,
				TaxID:     taxID,
				Income:    amount,
				Region:    domain.Region(region),
				BirthDate: born,
			}
			return c.withApp(cmd, func(a *app.App) error {
				clientID, err := a.Assignments.AssignClient(cmd.Context(), req)
				if err != nil {
					if !clientID.IsNil() {
						return fmt.Errorf("client %s stored without roster entry (run roster repair): %w", clientID, err)
					}
					return err
				}
				client, err := a.Clients.FindByID(cmd.Context(), clientID)
				if err != nil {
					return err
				}
				return c.print(cmd.OutOrStdout(), client, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s assigned to %s (%s) id=%s\n",
						client.Name, client.ManagerName, client.Segment, client.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&taxID, "tax-id", "", "client CPF")
	cmd.Flags().StringVar(&income, "income", "", "monthly income, e.g. 6999.99")
	cmd.Flags().StringVar(&region, "region", "", "client state")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "YYYY-MM-DD")
	for _, flag := range []string{"name", "tax-id", "income", "region", "birth-date"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func (c *cli) reportManagerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manager <name>",
		Short: "List the clients in a manager's roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				report, err := a.Reports.ManagerReport(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.print(cmd.OutOrStdout(), report, func(w io.Writer) error {
					return reporting.RenderManagerReport(w, report)
				})
			})
		},
	}
}

func (c *cli) reportSegmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List clients grouped by segment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				groups, err := a.Reports.SegmentReport(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(cmd.OutOrStdout(), groups, func(w io.Writer) error {
					return reporting.RenderSegmentReport(w, groups)
				})
			})
		},
	}
}

func (c *cli) rosterRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Add clients missing from their manager's roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				repaired, err := a.Assignments.RepairRosters(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(cmd.OutOrStdout(), map[string]int{"repaired": repaired}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "repaired %d roster entries\n", repaired)
					return err
				})
			})
		},
	}
}
