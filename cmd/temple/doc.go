package main

import (
	"github.com/Comcast/temple/interpreters"
	"github.com/Comcast/temple/tools"

	"github.com/spf13/cobra"
)

func newDocCmd(a *app) *cobra.Command {
	var (
		html     bool
		markdown bool
		mermaid  bool
		css      []string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "doc LIBRARY",
		Short: "Document a library for a terminal or as Markdown, HTML, or Mermaid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if html {
				return tools.ReadAndRenderLibraryPage(args[0], css, out)
			}
			l, err := tools.ReadLibrary(args[0])
			if err != nil {
				return err
			}
			if markdown {
				return tools.LibraryMarkdown(l, out)
			}
			if mermaid {
				if err = l.Compile(cmd.Context(), interpreters.Standard(a.log()), nil); err != nil {
					return err
				}
				return tools.Mermaid(l, out, nil)
			}
			return tools.RenderLibraryTerminal(l, out, width)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "write an HTML page")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "write Markdown")
	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "write a Mermaid diagram of the order dicta are tried")
	cmd.Flags().StringSliceVar(&css, "css", nil, "CSS files for the HTML page")
	cmd.Flags().IntVar(&width, "width", 80, "terminal width")

	return cmd
}
