package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrgen/qrgen/payload"
)

var version = "v0.1.0"

// errReported marks a failure that has already been printed to the user.
var errReported = errors.New("reported")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}

// newRootCommand builds the full command tree.
func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "qrgen [text] [filename]",
		Short: "Generate QR code images from URLs and other payloads",
		Long: "Generate a QR code PNG for the given text. Without arguments an\n" +
			"interactive menu offers single, file-batch and manual-batch generation.\n\n" +
			"Text that matches a command name is encoded when it follows --:\n" +
			"  qrgen -- version",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInteractive(cmd, flags)
			}
			filename := ""
			if len(args) > 1 {
				filename = args[1]
			}
			return runSingle(cmd, flags, payload.KindText, args[0], filename)
		},
	}
	flags.register(root)

	// --- payload commands ----------------------------------------------------
	root.AddCommand(urlCommand(flags))
	root.AddCommand(emailCommand(flags))
	root.AddCommand(phoneCommand(flags))
	root.AddCommand(smsCommand(flags))
	root.AddCommand(wifiCommand(flags))
	root.AddCommand(geoCommand(flags))

	// --- batch command -------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "batch [file]",
		Short: "Generate one QR code per line of a file (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, flags, args[0])
		},
	})

	// --- serve command -------------------------------------------------------
	var listen string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator form on a local address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, listen)
		},
	}
	serveCmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, 127.0.0.1:8556)")
	root.AddCommand(serveCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running form server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://127.0.0.1:8556", "Form server HTTP address")
	root.AddCommand(statusCmd)

	// --- history command -----------------------------------------------------
	var limit, offset int
	historyCmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List or search previously generated QR codes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runHistory(cmd, flags, query, limit, offset)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	historyCmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	root.AddCommand(historyCmd)

	// --- decode command ------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "decode [image]",
		Short: "Print the text stored in a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args[0])
		},
	})

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrgen %s\n", version)
		},
	})

	return root
}
