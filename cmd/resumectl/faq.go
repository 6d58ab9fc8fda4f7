package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/resumeforge/resumeforge/internal/faq"
)

var (
	chatSeed  int64
	chatDelay time.Duration
)

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Ask the resume assistant",
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Print the assistant's reply to one question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, cat := responder().Respond(strings.Join(args, " "))
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "category: %s\n", cat)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively; one question per line, EOF to quit",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	faqCmd.PersistentFlags().Int64Var(&chatSeed, "seed", 0, "Seed for reply selection (0 uses the clock)")
	chatCmd.Flags().DurationVar(&chatDelay, "delay", faq.DefaultDelay, "Typing delay before each reply")
	faqCmd.AddCommand(askCmd, chatCmd)
}

func responder() *faq.Responder {
	if chatSeed != 0 {
		return faq.NewResponder(chatSeed)
	}
	return faq.NewTimeSeededResponder()
}

func runChat(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	chat := faq.NewChat(responder(),
		faq.WithDelay(chatDelay),
		faq.OnReply(func(m faq.Message) { fmt.Fprintf(out, "bot> %s\n", m.Text) }),
	)
	fmt.Fprintf(out, "bot> %s\n", faq.Greeting())

	in := bufio.NewScanner(cmd.InOrStdin())
	for in.Scan() {
		if _, ok := chat.Send(in.Text()); ok {
			chat.Wait()
		}
	}
	return errors.Wrap(in.Err(), "read input")
}
