package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbckr/statuspane/internal/apperr"
)

func newRenderCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Write an error, success or loading message into a page region",
		GroupID: "display",
	}
	cmd.AddCommand(
		newRenderErrorCmd(d),
		newRenderSuccessCmd(d),
		newRenderLoadingCmd(d),
		newRenderClearCmd(d),
	)
	return cmd
}

func newRenderErrorCmd(d *deps) *cobra.Command {
	var (
		opts pageOptions
		code string
	)
	cmd := &cobra.Command{
		Use:   "error <message>",
		Short: "Render an error message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			doc, err := opts.load()
			if err != nil {
				return err
			}
			d.newDisplay(doc).Error(opts.Region, strings.Join(args, " "), code)
			return opts.write(cmd, doc)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&code, "code", "", "error code shown next to the title")
	return cmd
}

func newRenderSuccessCmd(d *deps) *cobra.Command {
	var (
		opts pageOptions
		hold bool
	)
	cmd := &cobra.Command{
		Use:   "success <message>",
		Short: "Render a success message",
		Long: `Render a success message.

With --hold the command stays running until the auto-clear delay
(--clear-after) has passed, then writes the page again. The region is emptied
only if it still shows the success message (see --clear-match). --hold needs
--out or --in-place, since the page is written twice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if hold && opts.Out == "" && !opts.InPlace {
				return fmt.Errorf("%w: --hold requires --out or --in-place", apperr.ErrInvalidInput)
			}
			doc, err := opts.load()
			if err != nil {
				return err
			}
			ac := d.newDisplay(doc).Success(opts.Region, strings.Join(args, " "))
			if err := opts.write(cmd, doc); err != nil {
				if ac != nil {
					ac.Stop()
				}
				return err
			}
			if !hold || ac == nil {
				return nil
			}

			select {
			case <-ac.Done():
			case <-cmd.Context().Done():
				ac.Stop()
				return cmd.Context().Err()
			}
			d.logger.Debug("auto-clear finished", "region", opts.Region, "cleared", ac.Cleared())
			return opts.write(cmd, doc)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&hold, "hold", false, "wait for the auto-clear and write the page again")
	return cmd
}

func newRenderLoadingCmd(d *deps) *cobra.Command {
	var opts pageOptions
	cmd := &cobra.Command{
		Use:   "loading [message]",
		Short: "Render a loading spinner",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			doc, err := opts.load()
			if err != nil {
				return err
			}
			d.newDisplay(doc).Loading(opts.Region, strings.Join(args, " "))
			return opts.write(cmd, doc)
		},
	}
	opts.register(cmd)
	return cmd
}

func newRenderClearCmd(d *deps) *cobra.Command {
	var opts pageOptions
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			doc, err := opts.load()
			if err != nil {
				return err
			}
			d.newDisplay(doc).Clear(opts.Region)
			return opts.write(cmd, doc)
		},
	}
	opts.register(cmd)
	return cmd
}
