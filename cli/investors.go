package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/internal/client"
	"github.com/goto/salt/log"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func investorsCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investors",
		Aliases: []string{"investor", "lp"},
		Short:   "Search and inspect limited partners",
		Annotations: map[string]string{
			"group": "core",
		},
		Example: heredoc.Doc(`
			$ ninja investors search --location MENA --aum 1-10
			$ ninja investors show 42
		`),
	}

	cmd.AddCommand(
		searchInvestorsCommand(cfg),
		showInvestorCommand(cfg),
	)
	return cmd
}

func searchInvestorsCommand(cfg *Config) *cobra.Command {
	var (
		investorType, location, assetClass, firstTimeFunds string
		aum, sortBy, output                                string
		page                                               int
		desc                                               bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search investors by name and filters",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			"action:core": "true",
		},
		Example: heredoc.Doc(`
			$ ninja investors search blackrock
			$ ninja investors search --type Endowment --asset-class Venture --sort aum --desc
			$ ninja investors search --location US --page 2 -o json
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client, log.NewNoop())
			if err != nil {
				return err
			}

			view := investor.NewView(clnt)
			if len(args) > 0 {
				view.SetSearchTerm(args[0])
			}
			view.SetInvestorType(investorType)
			view.SetLocation(location)
			view.SetAssetClass(assetClass)
			view.SetFirstTimeFunds(firstTimeFunds)
			if aum != "" {
				r, err := parseAUM(aum)
				if err != nil {
					return err
				}
				view.SetAUMRange(r)
			}
			if sortBy != "" {
				direction := investor.SortAscending
				if desc {
					direction = investor.SortDescending
				}
				view.SetSort(investor.Sort{Column: sortBy, Direction: direction})
			}
			view.SetPage(page)

			res, err := refreshView(cmd.Context(), view)
			if err != nil {
				return fmt.Errorf("%s: %w", investor.UserMessage(err), err)
			}

			spinner.Stop()
			if output == "json" {
				fmt.Println(term.Bluef(prettyPrint(res)))
				return nil
			}

			report := [][]string{{"ID", "NAME", "TYPE", "AUM ($B)", "LOCATION", "PRIMARY CONTACT"}}
			for _, lp := range res.Rows {
				report = append(report, []string{
					strconv.FormatInt(lp.ID, 10),
					term.Bluef(lp.Name),
					lp.Type,
					formatAUM(lp.AUM),
					lp.Location,
					lp.PrimaryContact,
				})
			}
			printer.Table(os.Stdout, report)
			fmt.Println(term.Cyanf("Page %d of %d (%d investors)", view.Filter().Page, res.TotalPages(), res.TotalCount))
			return nil
		},
	}

	cmd.Flags().StringVarP(&investorType, "type", "t", "", "investor type, e.g. Endowment")
	cmd.Flags().StringVarP(&location, "location", "l", "", "location, e.g. US, MENA or a country name")
	cmd.Flags().StringVarP(&assetClass, "asset-class", "a", "", "preferred asset class, e.g. Venture")
	cmd.Flags().StringVar(&firstTimeFunds, "first-time-funds", "", "openness to first time funds (Yes/No)")
	cmd.Flags().StringVar(&aum, "aum", "", "aum bucket in billions, e.g. 1-10")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "column to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	cmd.Flags().StringVarP(&output, "out", "o", "table", "flag to control output viewing, for json `-o json`")
	return cmd
}

// refreshView runs the view and retries once on the last page when the
// requested one is past the end.
func refreshView(ctx context.Context, view *investor.View) (investor.QueryResult, error) {
	res, _, err := view.Refresh(ctx)
	if err != nil {
		return investor.QueryResult{}, err
	}
	if len(res.Rows) == 0 && view.ClampPage() {
		res, _, err = view.Refresh(ctx)
	}
	return res, err
}

func showInvestorCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full profile of an investor",
		Args:  cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ ninja investors show 42
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid investor id %q", args[0])
			}

			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client, log.NewNoop())
			if err != nil {
				return err
			}
			inv, err := clnt.GetInvestor(cmd.Context(), id)
			if err != nil {
				return err
			}

			spinner.Stop()
			fmt.Println(term.Bluef(prettyPrint(inv)))
			return nil
		},
	}
	return cmd
}
