package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

func newSimilarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <query...>",
		Short: "Print the nearest neighbours of a query",
		Long:  `Load the model and print the words closest to the sum of the query's word vectors.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("number")
			asJSON, _ := cmd.Flags().GetBool("json")
			return a.runSimilar(cmd, strings.Join(args, " "), limit, asJSON)
		},
	}

	cmd.Flags().IntP("number", "n", service.DefaultTopN, "Maximum results")
	cmd.Flags().Bool("json", false, "Output the same JSON body as GET /similarity")
	return cmd
}

func (a *app) runSimilar(cmd *cobra.Command, query string, limit int, asJSON bool) error {
	table, err := a.loadTable()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	res, err := service.NewSimilarityService(table).MostSimilar(cmd.Context(), query, limit)
	if err != nil {
		return err
	}

	if res.Fallback {
		fmt.Fprintf(cmd.ErrOrStderr(), "no match (%v), echoing query\n", res.Reason)
	}

	if asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(res.Neighbors)
	}

	for _, n := range res.Neighbors {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", n.Score, n.Label)
	}
	return nil
}
