package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"price-comparator/config"
	"price-comparator/models"
	"price-comparator/storage"
	"price-comparator/utils"
)

func newHistoryCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <product>",
		Short: "Prints stored observations for a product (requires POSTGRES_ENABLED).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.PostgresEnabled {
				return errors.New("history requires POSTGRES_ENABLED=true")
			}

			pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
			if err != nil {
				return err
			}
			defer pgWriter.Close()

			observations, err := pgWriter.FetchByQuery(args[0], limit)
			if err != nil {
				return err
			}
			logger.Debug("[history] %d observations for %q", len(observations), args[0])

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			renderHistory(t, observations)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of observations to print.")
	return cmd
}

func renderHistory(t table.Writer, observations []models.Observation) {
	t.AppendHeader(table.Row{"Run", "Store", "Price", "Average", "Quality"})
	for _, o := range observations {
		a := o.Analysis
		t.AppendRow(table.Row{
			o.RunAt.Format(models.TimestampLayout),
			a.Product.Store,
			fmt.Sprintf("$%.2f", a.Product.Price),
			fmt.Sprintf("$%.2f", a.AveragePrice),
			a.Quality.Token() + " " + a.Quality.String(),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
