package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	speakVoice string
	speakOut   string
)

var speakCmd = &cobra.Command{
	Use:   "speak <turn-id>",
	Short: "Save an assistant reply as mp3 audio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		audio, err := a.Speech.Speak(cmd.Context(), args[0], speakVoice)
		if err != nil {
			return err
		}
		out := speakOut
		if out == "" {
			out = audio.FileName
		}
		if err := os.WriteFile(out, audio.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", len(audio.Data), out)
		return nil
	},
}

func init() {
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "Voice (alloy, echo, fable, onyx, nova, shimmer)")
	speakCmd.Flags().StringVarP(&speakOut, "out", "o", "", "Output file (defaults to audio-<timestamp>.mp3)")
	rootCmd.AddCommand(speakCmd)
}
