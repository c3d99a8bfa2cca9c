package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-facade/internal/lookup"
)

func lookupCmd() *cobra.Command {
	var (
		city string
		path string
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Fetch current weather for a city once and print the raw response",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookup.ParsePath(path)
			if err != nil {
				return err
			}

			l, factory, err := lookup.NewFromConfig(holder, log, tele)
			if err != nil {
				return err
			}
			defer factory.Close()

			body, err := l.Get(cmd.Context(), p, city)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city name to look up")
	cmd.Flags().StringVar(&path, "path", string(lookup.PathTyped), "client provisioning path: simple, named or typed")
	_ = cmd.MarkFlagRequired("city")

	return cmd
}
