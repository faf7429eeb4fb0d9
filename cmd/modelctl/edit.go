package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelshelf/internal/models"
	"modelshelf/internal/services"
)

// formFlags binds the model form fields to one command's flags.
type formFlags struct {
	form models.ModelForm
}

func (f *formFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.form.Name, "name", "", "display name")
	c.Flags().StringVar(&f.form.Provider, "provider", "", "provider label")
	c.Flags().StringVar(&f.form.BaseURL, "base-url", "", "API base URL")
	c.Flags().StringVar(&f.form.APIKey, "api-key", "", "API key")
}

// overlay copies the flags that were set on c onto form.
func (f *formFlags) overlay(c *cobra.Command, form models.ModelForm) models.ModelForm {
	flags := c.Flags()
	if flags.Changed("name") {
		form.Name = f.form.Name
	}
	if flags.Changed("provider") {
		form.Provider = f.form.Provider
	}
	if flags.Changed("base-url") {
		form.BaseURL = f.form.BaseURL
	}
	if flags.Changed("api-key") {
		form.APIKey = f.form.APIKey
	}
	return form
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	flags := &formFlags{}
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a custom model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				s.svc.ModelList.AddModel()
				if _, err := s.svc.Modal.Confirm(flags.form); err != nil {
					s.svc.Modal.Cancel()
					return err
				}
				list := s.svc.Registry.Models()
				fmt.Fprintln(cmd.OutOrStdout(), list[len(list)-1].ID)
				return nil
			})
		},
	}
	flags.register(c)
	return c
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	flags := &formFlags{}
	c := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a custom model, unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				view, err := s.svc.ModelList.EditModel(args[0])
				if err != nil {
					return err
				}
				if _, err := s.svc.Modal.Confirm(flags.overlay(cmd, view.Form)); err != nil {
					s.svc.Modal.Cancel()
					return err
				}
				return nil
			})
		},
	}
	flags.register(c)
	return c
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a custom model",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				entry, err := lookup(s, args[0])
				if err != nil {
					return err
				}
				if entry.IsProtected() {
					return fmt.Errorf("%s: %w", entry.Name, services.ErrProtectedEntry)
				}
				if _, err := s.svc.ModelList.DeleteModel(entry.ID); err != nil {
					return err
				}
				if s.svc.Registry.IndexOf(entry.ID) >= 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
				}
				return nil
			})
		},
	}
}

func lookup(s *session, id string) (models.ModelConfig, error) {
	index := s.svc.Registry.IndexOf(id)
	if index < 0 {
		return models.ModelConfig{}, fmt.Errorf("model %q: %w", id, services.ErrStaleEntry)
	}
	entry, err := s.svc.Registry.Get(index)
	if err != nil {
		return models.ModelConfig{}, fmt.Errorf("model %q: %w", id, err)
	}
	return entry, nil
}
