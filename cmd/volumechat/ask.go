package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"volume-chat/internal/chat"
	"volume-chat/internal/logger"
	"volume-chat/internal/render"
	"volume-chat/internal/ui"
)

var errReplyFailed = errors.New("reply failed")

func newAskCmd() *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, sessions, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer logger.ShutdownTracing(context.Background())

			term, err := render.NewTerminal(width)
			if err != nil {
				return err
			}

			sess, _ := sessions.GetOrCreate("")
			return ask(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), sess, term, strings.Join(args, " "), raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "stream text as it arrives without markdown rendering")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

// ask sends input and prints the reply to out. Progress views go to progress.
// With raw set, text is written as it streams in.
func ask(ctx context.Context, out, progress io.Writer, sess *chat.Session, term *render.Terminal, input string, raw bool) error {
	_, assistant, err := sess.Continue(ctx, input)
	if err != nil {
		return err
	}

	frames, cancel := assistant.Reply.Subscribe()
	defer cancel()

	var (
		lastKind ui.Kind
		printed  int
		final    ui.Frame
	)
	for f := range frames {
		final = f
		if f.Status.Terminal() {
			break
		}
		switch {
		case f.View.Kind == ui.KindText && raw:
			fmt.Fprint(out, f.View.Text[printed:])
			printed = len(f.View.Text)
		case f.View.Kind != lastKind && f.View.Kind != ui.KindText:
			fmt.Fprintln(progress, term.Plain(f.View))
		}
		lastKind = f.View.Kind
	}

	if raw && final.View.Kind == ui.KindText {
		fmt.Fprintln(out, final.View.Text[min(printed, len(final.View.Text)):])
	} else {
		fmt.Fprintln(out, term.Final(final.View))
	}

	if final.Status == ui.StatusFailed {
		return errReplyFailed
	}
	return nil
}
