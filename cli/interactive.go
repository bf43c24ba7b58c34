// Package cli implements the terminal presentation of qrgen: the
// interactive menu and the success/failure lines shared by every command.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/generator"
	"github.com/qrgen/qrgen/payload"
)

var rule = strings.Repeat("=", 60)

// Banner prints the program title.
func Banner(w io.Writer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "QR Code Generator")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// PrintGenerated reports a written file.
func PrintGenerated(w io.Writer, res *generator.Result) {
	fmt.Fprintf(w, "✓ QR code saved: %s\n", res.Path)
	fmt.Fprintf(w, "✓ Content: %s\n", res.Content)
}

// PrintFailure reports a failed generation.
func PrintFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "✗ Generation failed: %v\n", err)
}

// PrintBatch reports every batch entry followed by the total.
func PrintBatch(w io.Writer, report *generator.BatchReport) {
	for _, it := range report.Items {
		if it.Err != nil {
			fmt.Fprintf(w, "✗ Failed (%s): %v\n", it.Content, it.Err)
			continue
		}
		fmt.Fprintf(w, "✓ Generated: %s -> %s\n", it.Path, it.Content)
	}
	fmt.Fprintf(w, "\n✓ Generated %d QR code(s)\n", report.Succeeded())
}

// Interactive is the menu shown when qrgen runs without arguments.
type Interactive struct {
	In      io.Reader
	Out     io.Writer
	Service *generator.Service
	Options encoder.Options
	// Pause waits for Enter before returning, so a double-clicked console
	// window stays open.
	Pause bool
}

// Run shows the menu and performs one action. Failures are printed, not
// returned; the error result is reserved for I/O on the prompt itself.
func (it *Interactive) Run(ctx context.Context) error {
	in := bufio.NewReader(it.In)
	out := it.Out

	Banner(out)
	fmt.Fprintln(out, "Choose a mode:")
	fmt.Fprintln(out, "1. Single item")
	fmt.Fprintln(out, "2. Batch (read from file)")
	fmt.Fprintln(out, "3. Batch (manual input)")
	fmt.Fprintln(out)

	choice, err := prompt(in, out, "Enter option (1/2/3): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		err = it.single(ctx, in)
	case "2":
		err = it.batchFromFile(ctx, in)
	case "3":
		err = it.batchManual(ctx, in)
	default:
		fmt.Fprintln(out, "\n✗ Invalid option")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\n"+rule)
	if it.Pause {
		if _, err := prompt(in, out, "\nPress Enter to exit..."); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interactive) single(ctx context.Context, in *bufio.Reader) error {
	content, err := prompt(in, it.Out, "\nEnter content (URL or text): ")
	if err != nil {
		return err
	}
	filename, err := prompt(in, it.Out, "Enter file name (press Enter for a timestamp): ")
	if err != nil {
		return err
	}

	res, err := it.Service.Generate(ctx, generator.Request{
		Kind:     payload.KindText,
		Content:  content,
		Filename: filename,
		Options:  it.Options,
	})
	fmt.Fprintln(it.Out)
	if err != nil {
		PrintFailure(it.Out, err)
		return nil
	}
	PrintGenerated(it.Out, res)
	return nil
}

func (it *Interactive) batchFromFile(ctx context.Context, in *bufio.Reader) error {
	path, err := prompt(in, it.Out, "\nEnter the path of a file with one item per line: ")
	if err != nil {
		return err
	}

	info, statErr := os.Stat(path)
	if path == "" || statErr != nil || info.IsDir() {
		fmt.Fprintf(it.Out, "\n✗ File not found: %s\n", path)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(it.Out, "\n✗ Cannot open %s: %v\n", path, err)
		return nil
	}
	defer f.Close()

	lines, err := generator.ReadLines(f)
	if err != nil {
		fmt.Fprintf(it.Out, "\n✗ Cannot read %s: %v\n", path, err)
		return nil
	}
	PrintBatch(it.Out, it.Service.Batch(ctx, lines, it.Options))
	return nil
}

func (it *Interactive) batchManual(ctx context.Context, in *bufio.Reader) error {
	fmt.Fprintln(it.Out, "\nEnter items, one per line (empty line to finish):")
	var items []string
	for {
		line, err := readLine(in)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" {
			break
		}
		items = append(items, line)
		if err != nil {
			break
		}
	}

	if len(items) == 0 {
		fmt.Fprintln(it.Out, "\n✗ No items entered")
		return nil
	}
	PrintBatch(it.Out, it.Service.Batch(ctx, items, it.Options))
	return nil
}

// prompt prints label and returns the trimmed reply. EOF yields an empty
// reply so piped input that ends early behaves like pressing Enter.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := readLine(in)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return line, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	return strings.TrimSpace(line), err
}
