package main

import (
	"strings"

	"nuvana-site/internal/knowledge"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newFAQCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "faq",
		Short: "Print the landing page FAQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := knowledge.FAQ()
			if err != nil {
				return err
			}

			var md strings.Builder
			md.WriteString("# Frequently Asked Questions\n\n")
			for _, item := range items {
				md.WriteString("## " + item.Question + "\n\n")
				md.WriteString(item.Answer + "\n\n")
			}

			if opts.plain {
				_, err = cmd.OutOrStdout().Write([]byte(md.String()))
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(md.String())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(out))
			return err
		},
	}
}
