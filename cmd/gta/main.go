package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-gta-reader/internal/app"
	"github.com/a3tai/mcp-gta-reader/internal/config"
	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/workflow"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gta",
		Short: "Extract and price GTA livestock transport certificates",
		Long: `gta reads GTA (Guia de Trânsito Animal) PDFs, extracts their data to JSON
and prices the livestock lines with the state price list (pauta fiscal) to
prepare the invoice report.

Every option can also be set with a GTA_<OPTION> environment variable.

Example:
  gta extract                          # newest PDF of --dir
  gta report "GTA 123456.pdf" --classe "Gado de Corte"
  gta classes
  gta history --db gta.db --limit 10`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.DefaultConfig()
	defaults.LogDirectory = config.DefaultLogDir
	config.DefineFlags(rootCmd.PersistentFlags(), defaults)

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(classesCmd())
	rootCmd.AddCommand(historyCmd())

	return rootCmd
}

// setup loads the configuration from the command's flags and wires the app
func setup(cmd *cobra.Command) (*app.App, error) {
	defaults := config.DefaultConfig()
	defaults.LogDirectory = config.DefaultLogDir

	cfg, err := config.LoadWithDefaults(cmd.Flags(), nil, defaults)
	if err != nil {
		return nil, err
	}
	cfg.Version = version
	return app.New(cfg, cmd.ErrOrStderr())
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [pdf]",
		Short: "Extract a GTA to JSON",
		Long: `Extract the data of a GTA PDF, print it as JSON and save it in the JSON
directory. Without an argument the newest PDF of --dir is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Runner.Extract(cmd.Context(), argOrEmpty(args))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Record)
		},
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [pdf]",
		Short: "Price a GTA and write the invoice report",
		Long: `Extract a GTA, look every livestock line up in the price list and write the
Excel report and products JSON. The fiscal operation is printed as well:
a transfer when origin and destination share the CPF/CNPJ, otherwise the
--operation choice (name or number).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pauta, _ := cmd.Flags().GetString("pauta")
			classe, _ := cmd.Flags().GetString("classe")
			operation, _ := cmd.Flags().GetString("operation")
			if operation != "" {
				// Reject a bad choice before any report file is written
				if _, err := workflow.ParseOperation(operation); err != nil {
					return err
				}
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Runner.Report(cmd.Context(), argOrEmpty(args), classe, pauta)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rec := res.Extract.Record
			fmt.Fprintf(out, "GTA:         %s\n", gta.Value(rec.NumeroGTA))
			fmt.Fprintf(out, "Classe:      %s\n", res.Classe)
			fmt.Fprintf(out, "Pauta:       %s\n", res.PriceListPath)
			fmt.Fprintf(out, "Relatório:   %s\n", res.ExcelPath)
			fmt.Fprintf(out, "Produtos:    %s\n", res.ProductsPath)
			if operation != "" || workflow.SameOwner(rec) {
				op, err := workflow.ChooseOperation(rec, operation)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Operação:    %s\n", op)
			} else {
				fmt.Fprintln(out, "Operação:    choose one with --operation:")
				for i, op := range workflow.Operations {
					fmt.Fprintf(out, "  %d. %s\n", i+1, op)
				}
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ESPÉCIE\tSEXO\tFAIXA\tQUANTIDADE\tPREÇO")
			for _, p := range res.Products {
				price := "-"
				if p.Preco != nil {
					price = fmt.Sprintf("%.2f", *p.Preco)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.Especie, p.Sexo, p.Faixa, p.Quantidade, price)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("pauta", "", "Price list .xlsx (newest of --pautadir when empty)")
	cmd.Flags().String("operation", "", "Fiscal operation name or number (1-3)")
	return cmd
}

func classesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the livestock classes of a price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pauta, _ := cmd.Flags().GetString("pauta")

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path, classes, err := a.Runner.Classes(pauta)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", path)
			for i, c := range classes {
				fmt.Fprintf(out, "  %d. %s\n", i+1, c)
			}
			return nil
		},
	}

	cmd.Flags().String("pauta", "", "Price list .xlsx (newest of --pautadir when empty)")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived GTAs (requires --db)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			numero, _ := cmd.Flags().GetString("numero")
			totals, _ := cmd.Flags().GetBool("totals")

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case totals:
				sums, err := a.Runner.Totals(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ESPÉCIE\tSEXO\tQUANTIDADE")
				for _, s := range sums {
					fmt.Fprintf(w, "%s\t%s\t%d\n", s.Especie, s.Sexo, s.Quantidade)
				}
				return w.Flush()

			case numero != "":
				rec, err := a.Runner.Lookup(ctx, numero)
				if err != nil {
					return err
				}
				return printJSON(out, rec)

			default:
				records, err := a.Runner.History(ctx, limit)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tGTA\tCATEGORIAS\tARQUIVO\tATUALIZADO")
				for _, r := range records {
					fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.NumeroGTA, len(r.Data.Categorias), r.SourcePath, r.UpdatedAt)
				}
				return w.Flush()
			}
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum records to list")
	cmd.Flags().String("numero", "", "Show the archived record of a GTA number")
	cmd.Flags().Bool("totals", false, "Sum heads per species and sex")
	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
