package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/giygas/pharmly/assistant"
	"github.com/giygas/pharmly/bridge"
	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/validation"
)

const chatHelp = `Type a message and press enter.
  /verify [file]   submit a prescription for the pending medicine
  /help            show this help
  /quit            leave`

// runChat reads one message per line and prints the assistant's replies.
// Validation errors are shown and the session continues.
func runChat(ctx context.Context, registry *commands.Registry, in io.Reader, out io.Writer, voice bool) error {
	var conversationID string
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, chatHelp)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(out, chatHelp)
			continue
		case line == "/verify" || strings.HasPrefix(line, "/verify "):
			err = verify(ctx, registry, out, conversationID, strings.TrimSpace(strings.TrimPrefix(line, "/verify")))
		default:
			conversationID, err = send(ctx, registry, out, conversationID, line, voice)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var vErr *validation.ValidationError
			if errors.As(err, &vErr) || errors.Is(err, commands.ErrNotFound) {
				fmt.Fprintln(out, "!", err)
				continue
			}
			return err
		}
	}
}

func send(ctx context.Context, registry *commands.Registry, out io.Writer, conversationID, message string, voice bool) (string, error) {
	payload, err := json.Marshal(commands.SendInput{ConversationID: conversationID, Message: message, Voice: voice})
	if err != nil {
		return conversationID, err
	}

	result, err := registry.Execute(ctx, commands.CmdSend, payload)
	if err != nil {
		return conversationID, err
	}

	res := result.(commands.SendOutput)
	if res.Greeting != nil {
		printReply(out, *res.Greeting)
	}
	printReply(out, res.Reply)
	return res.ConversationID, nil
}

func verify(ctx context.Context, registry *commands.Registry, out io.Writer, conversationID, path string) error {
	if conversationID == "" {
		fmt.Fprintln(out, "! start a conversation first")
		return nil
	}

	in := commands.VerifyInput{ConversationID: conversationID}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(out, "! cannot read prescription:", err)
			return nil
		}
		in.FileName = filepath.Base(path)
		in.File = content
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Verifying prescription...")
	result, err := registry.Execute(ctx, commands.CmdVerify, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Pharmly: %s\n\n", result.(bridge.VerificationResult).Message)
	return nil
}

func printReply(out io.Writer, reply assistant.Reply) {
	fmt.Fprintf(out, "Pharmly: %s\n\n", reply.Text)
}
