package main

import (
	"nuvana-site/internal/knowledge"
	"nuvana-site/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	knowledgeFile string
	plain         bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "bloom",
		Short:        "Talk to Bloom, the NuvanaCore assistant, from the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.knowledgeFile, "knowledge", "", "knowledge base YAML file (defaults to the embedded records)")
	root.PersistentFlags().BoolVar(&opts.plain, "plain", false, "disable colors and markdown rendering")

	root.AddCommand(newAskCmd(opts), newChatCmd(opts), newFAQCmd(opts))
	return root
}

func (o *options) replyService() (*service.ReplyService, error) {
	base := knowledge.Default()
	if o.knowledgeFile != "" {
		var err error
		base, err = knowledge.LoadFile(o.knowledgeFile)
		if err != nil {
			return nil, err
		}
	}
	return service.NewReplyService(base, nil, zap.NewNop()), nil
}
