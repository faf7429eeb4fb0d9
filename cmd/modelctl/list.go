package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"modelshelf/internal/models"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured models in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				return printModels(cmd.OutOrStdout(), s.svc.Registry.Models(), opts.outputType)
			})
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				entry, err := lookup(s, args[0])
				if err != nil {
					return err
				}
				return printModels(cmd.OutOrStdout(), []models.ModelConfig{entry}, opts.outputType)
			})
		},
	}
}

func printModels(w io.Writer, list []models.ModelConfig, format string) error {
	if format == "json" {
		redacted := lo.Map(list, func(m models.ModelConfig, _ int) models.ModelConfig {
			m.APIKey = maskKey(m.APIKey)
			return m
		})
		data, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, modelTable(list))
	return err
}

func modelTable(list []models.ModelConfig) string {
	rows := lo.Map(list, func(m models.ModelConfig, i int) []string {
		enabled := "✓"
		if !m.Enabled {
			enabled = "✗"
		}
		builtin := ""
		if m.IsProtected() {
			builtin = "built-in"
		}
		return []string{
			fmt.Sprintf("%d", i),
			m.ID,
			m.Name,
			m.ProviderLabel(),
			m.BaseURL,
			maskKey(m.APIKey),
			enabled,
			builtin,
		}
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("#", "ID", "NAME", "PROVIDER", "BASE URL", "API KEY", "ENABLED", "").
		Rows(rows...)
	return t.String()
}

// maskKey keeps the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return "-"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
