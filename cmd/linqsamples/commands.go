package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/linqkit/config"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/query"
	"github.com/kbukum/linqkit/samples"
	"github.com/kbukum/linqkit/version"
)

type catalogEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

func newListCmd(o *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			list := samples.Catalog
			if category != "" {
				if list, err = samples.InCategory(category); err != nil {
					return err
				}
			}
			out := o.dumper(cmd.OutOrStdout(), cfg)
			for _, s := range list {
				if err := out.Write(catalogEntry{Name: s.Name, Category: s.Category, Title: s.Title}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only samples of this category ("+strings.Join(samples.Categories(), ", ")+")")
	return cmd
}

func newDescribeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <sample>",
		Short: "Show a sample's description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			s, err := samples.Lookup(args[0])
			if err != nil {
				return err
			}
			out := o.dumper(cmd.OutOrStdout(), cfg)
			if cfg.Output.Format == config.FormatJSON {
				return out.Write(struct {
					catalogEntry
					Description string `json:"description"`
				}{catalogEntry{s.Name, s.Category, s.Title}, s.Description})
			}
			if err := out.Heading("%s (%s)", s.Title, s.Name); err != nil {
				return err
			}
			return out.Write(s.Category + ": " + s.Description)
		},
	}
}

func newRunCmd(o *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "run [sample...]",
		Short: "Run samples; all of them when none are named",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				selected []samples.Sample
				err      error
			)
			if category != "" {
				if len(args) > 0 {
					return errors.InvalidInput("category", "cannot be combined with sample names")
				}
				selected, err = samples.InCategory(category)
			} else {
				selected, err = samples.Select(args...)
			}
			if err != nil {
				return err
			}

			return o.runApp(cmd.Context(), func(ctx context.Context, s *session) error {
				env := samples.NewEnv(s.source, o.dumper(cmd.OutOrStdout(), s.cfg), s.cfg.Samples)
				summary, err := samples.NewRunner(env, samples.WithMetrics(s.metrics)).Run(ctx, selected...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d samples passed in %s\n",
					summary.Passed(), len(summary.Reports), summary.Elapsed.Round(time.Millisecond))
				for _, r := range summary.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s [%s]: %v\n", r.Sample, r.RunID, r.Err)
				}
				return summary.Err()
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "run every sample of this category")
	return cmd
}

func newQueryCmd(o *options) *cobra.Command {
	var (
		req        query.Request
		listFields bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter an entity with a CEL expression",
		Example: `  linqsamples query --entity products --where 'units_in_stock == 0' --order-by unit_price --desc
  linqsamples query --entity customers --where 'region != null && order_count > 2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listFields {
				fields, err := query.Fields(req.Entity)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(fields, "\n"))
				return nil
			}
			return o.runApp(cmd.Context(), func(ctx context.Context, s *session) error {
				n, err := query.Run(ctx, s.source, o.dumper(cmd.OutOrStdout(), s.cfg), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", n, req.Entity)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Entity, "entity", "e", query.EntityCustomers, "entity to query ("+strings.Join(query.Entities(), ", ")+")")
	flags.StringVarP(&req.Where, "where", "w", "", "CEL boolean expression over the entity's fields")
	flags.StringVar(&req.OrderBy, "order-by", "", "field to order by")
	flags.BoolVar(&req.Descending, "desc", false, "order descending")
	flags.BoolVar(&listFields, "fields", false, "list the entity's fields and exit")
	return cmd
}

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if o.format == dump.FormatJSON {
				return dump.New(cmd.OutOrStdout(), dump.FormatJSON).Write(info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
}
