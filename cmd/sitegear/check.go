package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/session"
)

var errCheckFailed = errors.New("one or more forms failed to build")

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check [key...]",
		Short: "Build form definitions and print a summary",
		Long: "Loads and builds each form from the site root, printing its steps and fields.\n" +
			"Without keys every definition in the forms directory is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSite(e.cfg, e.log, nil)
			if err != nil {
				return err
			}
			if err := s.start(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = s.engine.Stop(cmd.Context()) }()

			keys := args
			if len(keys) == 0 {
				if keys, err = s.forms.DefinitionKeys(); err != nil {
					return err
				}
			}

			failed := false
			for _, key := range keys {
				// A throwaway session: definitions may read {{ data }} tokens.
				sess := session.New("check", "", time.Now().Add(time.Minute))
				f, err := s.forms.Form(cmd.Context(), key, sess, "/")
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", key, err)
					failed = true
					continue
				}
				printForm(cmd.OutOrStdout(), key, f)
			}
			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
}

func printForm(w io.Writer, key string, f *form.Form) {
	fmt.Fprintf(w, "%s: %d steps, %d fields\n", key, f.StepCount(), len(f.Fields()))
	for _, step := range f.Steps() {
		var flags []string
		if step.OneWay {
			flags = append(flags, "one-way")
		}
		for _, p := range step.Processors() {
			flags = append(flags, p.Name())
		}
		names := make([]string, 0, len(step.ReferencedFields()))
		for _, field := range step.ReferencedFields() {
			names = append(names, field.Name)
		}
		line := fmt.Sprintf("  %d. %s [%s]", step.Index()+1, step.Heading, strings.Join(names, ", "))
		if len(flags) > 0 {
			line += " (" + strings.Join(flags, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}
