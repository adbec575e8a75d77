package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"nuvana-site/internal/knowledge"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask Bloom a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replies, err := opts.replyService()
			if err != nil {
				return err
			}
			match := replies.Reply(cmd.Context(), strings.Join(args, " "))

			p := newPrinter(cmd.OutOrStdout(), opts.plain)
			p.bot(match.Answer)
			if verbose {
				p.meta(fmt.Sprintf("outcome=%s record=%s score=%d", match.Outcome, match.RecordID, match.Score))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show which record matched")
	return cmd
}

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation, type exit to leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			replies, err := opts.replyService()
			if err != nil {
				return err
			}
			greeting, prompts, err := knowledge.Prompts()
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), opts.plain)
			p.bot(greeting)
			values := make([]string, 0, len(prompts))
			for _, qp := range prompts {
				values = append(values, qp.Value)
			}
			p.meta("Try: " + strings.Join(values, " | "))

			return chatLoop(cmd, cmd.InOrStdin(), p, func(input string) string {
				return replies.Reply(cmd.Context(), input).Answer
			})
		},
	}
}

func chatLoop(cmd *cobra.Command, in io.Reader, p *printer, reply func(string) string) error {
	scanner := bufio.NewScanner(in)
	for {
		p.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		p.bot(reply(line))
	}
}
