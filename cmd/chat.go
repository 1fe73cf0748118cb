package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/llm"
	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/store"
	"github.com/abhisek/skillora/internal/tutor"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a tutoring session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profileFromFlags(cmd)
		if err != nil {
			return err
		}
		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			provider, err := llm.NewProviderFromEnv(ctx, rec)
			if err != nil {
				return fmt.Errorf("LLM provider not configured: %w", err)
			}
			client := tutor.NewClient(provider, tutor.DefaultConfig())

			conv, err := tutor.Start(ctx, p, client, rec)
			if err != nil {
				return err
			}
			return runChat(ctx, conv, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	chatCmd.Flags().String("name", "", "Student's first name")
	chatCmd.Flags().Int("grade", 3, "Grade level (1-12)")
	chatCmd.Flags().String("subject", string(record.SubjectMath), "Subject: math or reading")
	chatCmd.Flags().String("topic", "", "Topic (defaults to the grade's first topic)")
	chatCmd.Flags().Int("buddy", 0, "Tutor buddy index")
	_ = chatCmd.MarkFlagRequired("name")
}

func profileFromFlags(cmd *cobra.Command) (tutor.Profile, error) {
	name, _ := cmd.Flags().GetString("name")
	grade, _ := cmd.Flags().GetInt("grade")
	subject, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")
	buddy, _ := cmd.Flags().GetInt("buddy")

	p := tutor.Profile{
		Name:    name,
		Grade:   grade,
		Subject: record.Subject(strings.ToLower(subject)),
		Topic:   topic,
		Buddy:   buddy,
	}
	if p.Topic == "" {
		if topics := tutor.Topics(p.Grade, p.Subject); len(topics) > 0 {
			p.Topic = topics[0]
		}
	}
	if err := tutor.ValidateProfile(p); err != nil {
		return p, err
	}
	return p, nil
}

// runChat reads student messages line by line until /quit or EOF, then
// saves the session.
func runChat(ctx context.Context, conv *tutor.Conversation, in io.Reader, out io.Writer) error {
	p := conv.Profile()
	buddy := tutor.Buddy(p.Buddy)
	lines := bufio.NewScanner(in)

	fmt.Fprintf(out, "%s %s · Grade %d · %s\n", tutor.GradeIcon(p.Grade), tutor.SubjectLabel(p.Subject), p.Grade, p.Topic)
	fmt.Fprintln(out, "Type /help for shortcuts, /quit to finish.")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", buddy, conv.Intro())

	for {
		fmt.Fprint(out, "\n> ")
		if !lines.Scan() {
			break
		}
		text := strings.TrimSpace(lines.Text())

		switch {
		case text == "":
			continue
		case text == "/quit":
			return endChat(ctx, conv, out)
		case text == "/help":
			printShortcuts(out)
			continue
		case strings.HasPrefix(text, "/"):
			msg, ok := quickPrompt(text)
			if !ok {
				fmt.Fprintf(out, "Unknown command %s. Type /help.\n", text)
				continue
			}
			text = msg
		}

		turn, err := conv.Send(ctx, text)
		if err != nil {
			return err
		}
		if err := showTurn(ctx, conv, turn, buddy, lines, out); err != nil {
			return err
		}
	}

	if err := lines.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read input: %w", err)
	}
	return endChat(ctx, conv, out)
}

// showTurn prints a reply with its notices and, if the student should be
// asked about their reasoning, collects and sends their answer.
func showTurn(ctx context.Context, conv *tutor.Conversation, turn tutor.Turn, buddy string, lines *bufio.Scanner, out io.Writer) error {
	for {
		fmt.Fprintf(out, "%s %s\n", buddy, turn.Reply)

		ex := turn.Exchange
		if ex.IsBreakthrough {
			fmt.Fprintf(out, "💡 Breakthrough! You got it after %d tries.\n", ex.BreakthroughAfterAttempts)
		}
		if ex.Frustration != nil {
			fmt.Fprintln(out, "💛 This one is tricky. Take a breath, we'll go slowly.")
		}

		if turn.Reasoning == nil {
			return nil
		}

		fmt.Fprint(out, "🤔 What were you thinking? (press Enter to skip)\n> ")
		if !lines.Scan() {
			return nil
		}
		next, err := conv.Explain(ctx, *turn.Reasoning, lines.Text())
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		turn = *next
	}
}

func endChat(ctx context.Context, conv *tutor.Conversation, out io.Writer) error {
	sess := conv.End(ctx)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Session saved: %d exchanges, %d correct, %d breakthroughs.\n",
		sess.TotalExchanges, sess.CorrectAnswers, sess.BreakthroughCount)
	return nil
}

func printShortcuts(out io.Writer) {
	for i, q := range tutor.QuickPrompts {
		fmt.Fprintf(out, "  /%d  %s\n", i+1, q.Label)
	}
	fmt.Fprintln(out, "  /quit  end the session")
}

// quickPrompt maps "/N" to the Nth quick prompt.
func quickPrompt(cmd string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(cmd, "/"))
	if err != nil || n < 1 || n > len(tutor.QuickPrompts) {
		return "", false
	}
	return tutor.QuickPrompts[n-1].Message, true
}
