package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"journal-cli/internal/model"
)

func newEntriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Work with journal entries from scripts",
	}
	cmd.AddCommand(newEntriesListCmd(app))
	cmd.AddCommand(newEntriesAddCmd(app))
	cmd.AddCommand(newEntriesShowCmd(app))
	cmd.AddCommand(newEntriesRetitleCmd(app))
	cmd.AddCommand(newEntriesEditCmd(app))
	cmd.AddCommand(newEntriesDeleteCmd(app))
	return cmd
}

func newEntriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries grouped by time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.ws.Load(ctx); err != nil {
				return friendlyErr(err)
			}

			out := cmd.OutOrStdout()
			groups := e.ws.Groups(time.Now())
			if len(groups) == 0 {
				fmt.Fprintln(out, "No entries yet. Write one with `journal entries add <text>`.")
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(out, "%s\n", g.Bucket)
				for _, entry := range g.Entries {
					fmt.Fprintf(out, "  %-26s %-18s %s\n", entry.ID, formatWhen(entry.CreatedAt), entry.Title)
				}
			}
			return nil
		},
	}
}

func newEntriesAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Create a new entry (text argument, or - to read stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			content, err := readContentArg(cmd, args)
			if err != nil {
				return err
			}

			e.ws.BeginWrite()
			if err := e.ws.SubmitWrite(ctx, content); err != nil {
				return friendlyErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry saved.")
			return nil
		},
	}
}

func newEntriesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			entry, err := loadEntry(cmd, e, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, entry.Title)
			fmt.Fprintln(out, formatWhen(entry.CreatedAt))
			if len(entry.Tags) > 0 {
				fmt.Fprintln(out, "tags: "+strings.Join(entry.Tags, ", "))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, entry.Content)
			return nil
		},
	}
}

func newEntriesRetitleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retitle <entry-id> <new-title>",
		Short: "Rename an entry, keeping its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if _, err := loadEntry(cmd, e, args[0]); err != nil {
				return err
			}
			if err := e.ws.RenameTitle(ctx, args[0], args[1]); err != nil {
				return friendlyErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Title updated.")
			return nil
		},
	}
}

func newEntriesEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <entry-id> [text]",
		Short: "Replace an entry's content (text argument, or - to read stdin)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if _, err := loadEntry(cmd, e, args[0]); err != nil {
				return err
			}
			content, err := readContentArg(cmd, args[1:])
			if err != nil {
				return err
			}

			if err := e.ws.BeginEdit(args[0]); err != nil {
				return err
			}
			if err := e.ws.SubmitWrite(ctx, content); err != nil {
				return friendlyErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry updated.")
			return nil
		},
	}
}

func newEntriesDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				return errors.New("deletion is permanent; re-run with --yes to confirm")
			}
			e, err := bootstrap(ctx, app, false)
			if err != nil {
				return err
			}
			defer e.close()

			if _, err := loadEntry(cmd, e, args[0]); err != nil {
				return err
			}
			if err := e.ws.Delete(ctx, args[0]); err != nil {
				return friendlyErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

// loadEntry refreshes the collection and resolves id, so commands fail
// with a clear message before touching anything.
func loadEntry(cmd *cobra.Command, e *env, id string) (model.JournalEntry, error) {
	ctx := cmd.Context()
	if err := e.ws.Load(ctx); err != nil {
		return model.JournalEntry{}, friendlyErr(err)
	}
	for _, candidate := range e.ws.Entries() {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return model.JournalEntry{}, fmt.Errorf("no entry with id %s", id)
}

// readContentArg takes the entry text from the single positional argument,
// reading stdin when it is "-" or absent.
func readContentArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		text := strings.TrimSpace(args[0])
		if text == "" {
			return "", errors.New("entry text is empty")
		}
		return text, nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", errors.New("entry text is empty")
	}
	return text, nil
}
