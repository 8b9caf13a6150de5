package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/capitalninja/ninja/internal/client"
	"github.com/goto/salt/log"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func listsCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Browse your investor lists",
		Annotations: map[string]string{
			"group": "core",
		},
		Example: heredoc.Doc(`
			$ ninja lists list
			$ ninja lists investors 0b0ff2ce-6a4c-4c36-9f37-2dc1a8f2c7a1
		`),
	}

	cmd.AddCommand(
		listListsCommand(cfg),
		listInvestorsCommand(cfg),
	)
	return cmd
}

func listListsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every list you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client, log.NewNoop())
			if err != nil {
				return err
			}
			lists, err := clnt.GetLists(cmd.Context())
			if err != nil {
				return err
			}

			spinner.Stop()
			report := [][]string{{"ID", "NAME", "INVESTORS", "UPDATED"}}
			for _, l := range lists {
				report = append(report, []string{
					l.ID,
					term.Bluef(l.Name),
					strconv.Itoa(l.InvestorCount),
					l.UpdatedAt.Format("2006-01-02"),
				})
			}
			printer.Table(os.Stdout, report)
			return nil
		},
	}
}

func listInvestorsCommand(cfg *Config) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "investors <list-id>",
		Short: "Show the investors on a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := printer.Spin("")
			defer spinner.Stop()

			clnt, err := client.Create(cfg.Client, log.NewNoop())
			if err != nil {
				return err
			}
			res, err := clnt.GetListInvestors(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}

			spinner.Stop()
			report := [][]string{{"ID", "NAME", "TYPE", "AUM ($B)", "LOCATION"}}
			for _, lp := range res.Rows {
				report = append(report, []string{
					strconv.FormatInt(lp.ID, 10),
					term.Bluef(lp.Name),
					lp.Type,
					formatAUM(lp.AUM),
					lp.Location,
				})
			}
			printer.Table(os.Stdout, report)
			fmt.Println(term.Cyanf("Page %d of %d", max1(page), res.TotalPages()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	return cmd
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
