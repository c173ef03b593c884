package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tarynjenifer/smartgrow-ai/internal/chat"
)

type answer struct {
	Question string `json:"question" yaml:"question"`
	Rule     string `json:"rule" yaml:"rule"`
	Response string `json:"response" yaml:"response"`
}

func newAskCmd(a *app) *cobra.Command {
	var quick bool
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the farming assistant a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			if quick {
				for _, q := range a.content.Chat.QuickQuestions {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				}
				return nil
			}
			q := strings.Join(args, " ")
			if strings.TrimSpace(q) == "" {
				return errors.New("a question is required")
			}

			r := chat.NewResponder(a.content.Chat.Rules, a.content.Chat.Fallback)
			ans := answer{Question: q, Rule: "fallback", Response: r.Fallback()}
			if rule, ok := r.Match(q); ok {
				ans.Rule, ans.Response = rule.Name, rule.Response
			}
			return a.render(cmd.OutOrStdout(), ans, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, ans.Response)
			})
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "list the suggested quick questions")
	return cmd
}
