package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gwi.com/windtone-assistant/internal/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation as yaml or json",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "yaml" && exportFormat != "json" {
			return fmt.Errorf("unsupported format: %s (supported: yaml, json)", exportFormat)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}
		return writeExport(w, exportFormat, a.Chat.History())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Export format (yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func writeExport(w io.Writer, format string, conv store.Conversation) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(conv); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(conv, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
