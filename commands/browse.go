package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"restaurant-catalog/models"
	"restaurant-catalog/services"
	"restaurant-catalog/storage"
)

func init() {
	browseCmd.AddCommand(
		distinctCmd("cities", "Lists every location with at least one stored restaurant.", models.DimensionLocation),
		distinctCmd("cuisines", "Lists every cuisine with at least one stored restaurant.", models.DimensionCategory),
		distinctCmd("costs", "Lists every cost tier with at least one stored restaurant.", models.DimensionCost),
		listCmd,
		showCmd,
	)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(insightsCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read-only queries over the stored catalog.",
}

// withReader opens the store and hands its read side to fn.
func withReader(cmd *cobra.Command, fn func(ctx context.Context, r storage.CatalogReader) error) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func distinctCmd(use, short string, dim models.Dimension) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{stdoutReserved: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReader(cmd, func(ctx context.Context, r storage.CatalogReader) error {
				return printDistinct(ctx, cmd.OutOrStdout(), r, dim)
			})
		},
	}
}

var listCmd = &cobra.Command{
	Use:         "list <city|cuisine|cost> <value>",
	Short:       "Lists the restaurants with the given location, cuisine or cost tier.",
	Args:        cobra.MinimumNArgs(2),
	Annotations: map[string]string{stdoutReserved: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, ok := models.ParseDimension(args[0])
		if !ok {
			return fmt.Errorf("unknown dimension %q (want city, cuisine or cost)", args[0])
		}
		value := strings.Join(args[1:], " ")
		return withReader(cmd, func(ctx context.Context, r storage.CatalogReader) error {
			return printListings(ctx, cmd.OutOrStdout(), r, dim, value)
		})
	},
}

var showCmd = &cobra.Command{
	Use:         "show <name|id>",
	Short:       "Shows one restaurant with its category, cost tier and location decoded.",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{stdoutReserved: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.Join(args, " ")
		return withReader(cmd, func(ctx context.Context, r storage.CatalogReader) error {
			return printDetail(ctx, cmd.OutOrStdout(), r, key)
		})
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Prints per-location, per-cuisine and per-cost counts of the stored catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(ctx context.Context, r storage.CatalogReader) error {
			svc := services.NewInsightService(logger)
			report, err := svc.Generate(ctx, r)
			if err != nil {
				return err
			}
			svc.Print(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

func printDistinct(ctx context.Context, w io.Writer, r storage.CatalogReader, dim models.Dimension) error {
	values, err := r.ListDistinct(ctx, dim)
	if err != nil {
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", strings.ToUpper(string(dim[:1])) + string(dim[1:])})
	for i, v := range values {
		t.AppendRow(table.Row{i + 1, v})
	}
	if len(values) == 0 {
		t.AppendFooter(table.Row{"", "no stored restaurants"})
	}
	t.Render()
	return nil
}

func printListings(ctx context.Context, w io.Writer, r storage.CatalogReader, dim models.Dimension, value string) error {
	refs, err := r.ListByDimension(ctx, dim, value)
	if err != nil {
		return err
	}
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s = %s", dim, value))
	t.AppendHeader(table.Row{"ID", "Name", "URL"})
	for _, ref := range refs {
		t.AppendRow(table.Row{ref.ID, ref.Name, ref.URL})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d restaurants", len(refs)), ""})
	t.Render()
	return nil
}

func printDetail(ctx context.Context, w io.Writer, r storage.CatalogReader, key string) error {
	d, found, err := r.GetDetail(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no restaurant matches %q", key)
	}
	address := d.Address
	if address == "" {
		address = "(none listed)"
	}
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"ID", d.ID},
		{"Name", d.Name},
		{"Address", address},
		{"Cost", d.CostSymbol},
		{"Cuisine", d.CategoryName},
		{"Location", d.Location},
		{"URL", d.URL},
	})
	t.Render()
	return nil
}
