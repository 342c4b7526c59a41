package main

import (
	"fmt"

	"github.com/eternalApril/keyfile/internal/storage"
	"github.com/eternalApril/keyfile/internal/value"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE NAME [INDEX]",
		Short: "Print one value of a setting",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args, 2)
			if err != nil {
				return err
			}

			store := storage.New(c.log)
			if err := store.Parse(args[0]); err != nil {
				return errors.Wrapf(err, "unable to read %s", args[0])
			}

			v, ok := store.Lookup(args[1], idx)
			if !ok {
				return errors.Errorf("setting %q has no value at index %d", args[1], idx)
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.Text())
			return nil
		},
	}
}

func newSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE NAME VALUE [INDEX]",
		Short: "Write one value of a setting and save the file",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args, 3)
			if err != nil {
				return err
			}

			store := storage.New(c.log)
			if err := store.Parse(args[0]); err != nil {
				return errors.Wrapf(err, "unable to read %s", args[0])
			}

			v, err := store.SetValue(args[1], value.Parse(args[2]), idx)
			if err != nil {
				return errors.Wrapf(err, "unable to set %q", args[1])
			}

			if err := store.Save(args[0]); err != nil {
				return errors.Wrapf(err, "unable to save %s", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.Text())
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "Print every setting of a file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.New(c.log)
			if err := store.Parse(args[0]); err != nil {
				return errors.Wrapf(err, "unable to read %s", args[0])
			}

			return store.Snapshot(cmd.OutOrStdout())
		},
	}
}
