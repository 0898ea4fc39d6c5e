package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dungeon-viewer/previewer/services"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Store a dungeon map from a markup file",
		Long: `Reads a rectangular text grid and stores it under name.

Markup: '#' wall, '.' room floor, '+' corridor, ' ' empty space.
The preview glyphs '█', '░' and '▒' are accepted as well.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(args[1])
			if err != nil {
				return err
			}

			ctx := contextOrBackground(cmd.Context())
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := services.NewMapService(store, a.logger).Import(ctx, args[0], rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%dx%d)\n", m.Name, m.Width, m.Height)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored dungeon maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := services.NewMapService(store, a.logger).List(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored dungeon map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			return services.NewMapService(store, a.logger).Delete(ctx, args[0])
		},
	}
}

// readRows reads a markup file, dropping trailing empty lines
func readRows(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}
