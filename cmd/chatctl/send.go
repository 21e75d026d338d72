package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gwi.com/windtone-assistant/internal/core"
)

var (
	sendFiles  []string
	sendSpoken bool
)

var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send a message with optional files and print the reply",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := make([]core.File, 0, len(sendFiles))
		for _, path := range sendFiles {
			f, err := core.PathFile(path)
			if err != nil {
				return err
			}
			files = append(files, f)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		for _, f := range files {
			if f.Size > a.Config.MaxFileSizeBytes {
				return fmt.Errorf("%s exceeds the %d byte limit per file", f.Name, a.Config.MaxFileSizeBytes)
			}
		}

		sub, err := a.Chat.AddMessage(cmd.Context(), core.Input{
			Text:   strings.Join(args, " "),
			Files:  files,
			Spoken: sendSpoken,
		})
		if err != nil {
			return err
		}
		outcome, err := sub.Wait(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outcome.Status {
		case core.StatusDuplicate:
			fmt.Fprintln(out, warnStyle.Render("Duplicate message ignored."))
		case core.StatusDiscarded:
			fmt.Fprintln(out, warnStyle.Render("The conversation was cleared before the reply arrived."))
		default:
			fmt.Fprintln(out, renderTurn(*outcome.AssistantTurn, sendSpoken))
		}
		return outcome.Err
	},
}

func init() {
	sendCmd.Flags().StringArrayVarP(&sendFiles, "file", "f", nil, "Attach a file (repeatable)")
	sendCmd.Flags().BoolVar(&sendSpoken, "spoken", false, "Mark the message as dictated so the reply is offered as audio")
	rootCmd.AddCommand(sendCmd)
}
