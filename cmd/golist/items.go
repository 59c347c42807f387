package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"golist/internal/datefmt"
	"golist/internal/list"
	"golist/internal/validate"
)

var (
	addSubtitle  string
	editTitle    string
	editSubtitle string
	lsReverse    bool
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List items in insertion order",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var addCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change an item's title or subtitle",
	Long: `Change an item's title or subtitle.

Fields without a flag keep their current value.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm ID...",
	Aliases: []string{"delete"},
	Short:   "Remove items by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsReverse, "reverse", "r", false, "Newest first")
	addCmd.Flags().StringVarP(&addSubtitle, "subtitle", "s", "", "Secondary text")
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editSubtitle, "subtitle", "s", "", "New subtitle")
}

func runList(cmd *cobra.Command, args []string) error {
	items := deps.newStore(cmd.Context()).List()
	if lsReverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	printItems(cmd.OutOrStdout(), items)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	in := list.CreateInput{Title: args[0], Subtitle: addSubtitle}
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid item: %s", validate.Summary(err))
	}
	item, err := deps.newStore(cmd.Context()).Create(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), item.ID)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	store := deps.newStore(cmd.Context())
	current, ok := store.Find(args[0])
	if !ok {
		return fmt.Errorf("%s: %w", args[0], list.ErrNotFound)
	}

	in := list.UpdateInput{ID: current.ID, Title: current.Title, Subtitle: current.Subtitle}
	if cmd.Flags().Changed("title") {
		in.Title = editTitle
	}
	if cmd.Flags().Changed("subtitle") {
		in.Subtitle = editSubtitle
	}
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid item: %s", validate.Summary(err))
	}

	items, err := store.Update(cmd.Context(), in)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == in.ID {
			printItems(cmd.OutOrStdout(), []list.Item{it})
			return nil
		}
	}
	// removed by another writer between Find and Update
	return fmt.Errorf("%s: %w", in.ID, list.ErrNotFound)
}

func runRemove(cmd *cobra.Command, args []string) error {
	store := deps.newStore(cmd.Context())
	var errs []error
	for _, id := range args {
		if _, err := store.Delete(cmd.Context(), id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func runClear(cmd *cobra.Command, args []string) error {
	return deps.newStore(cmd.Context()).ClearAll(cmd.Context())
}

func printItems(w io.Writer, items []list.Item) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUBTITLE\tCREATED\tUPDATED")
	for _, it := range items {
		updated := "-"
		if it.UpdatedAt != nil {
			updated = datefmt.Format(it.UpdatedAt.Local(), datefmt.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Title, it.Subtitle,
			datefmt.Format(it.CreatedAt.Local(), datefmt.DateTime), updated)
	}
	_ = tw.Flush()
}
