package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newVersionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List saved versions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			versions, err := s.cache.LoadVersions(ctx)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No versions saved.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tCHARACTERS\tLOCATIONS\tSCENES")
			for _, v := range versions {
				sum := v.Summary()
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
					sum.ID,
					time.UnixMilli(sum.Timestamp).Format(time.RFC3339),
					sum.CharacterCount, sum.LocationCount, sum.SceneCount)
			}
			return w.Flush()
		},
	}
}
