package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/csvimport"
	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

const usage = "Usage: importer [flags] <path-to-data-file>"

type rowImporter interface {
	Import(ctx context.Context, rows []csvimport.Row) (model.ImportResult, error)
}

type importerFactory func(ctx context.Context, cfg *config.Config) (rowImporter, func() error, error)

// run imports the file named by the first positional argument and returns
// the process exit code.
func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, open importerFactory) int {
	if len(cfg.Args) == 0 || cfg.Args[0] == "" {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	data, err := os.ReadFile(cfg.Args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Import failed: %v\n", err)
		return 1
	}

	rows := csvimport.ParseAuto(string(data))
	fmt.Fprintf(stdout, "Parsed %d orders. Starting import...\n", len(rows))

	importer, closeFn, err := open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Import failed: %v\n", err)
		return 1
	}
	defer func() {
		if err := closeFn(); err != nil {
			fmt.Fprintf(stderr, "close storage: %v\n", err)
		}
	}()

	res, err := importer.Import(ctx, rows)
	if err != nil {
		var importErr *usecase.ImportError
		if errors.As(err, &importErr) {
			renderFailures(stdout, res.Failures)
		}
		renderSummary(stdout, len(rows), res)
		fmt.Fprintf(stderr, "Import failed: %v\n", err)
		return 1
	}

	renderSummary(stdout, len(rows), res)
	fmt.Fprintf(stdout, "Successfully imported %d orders!\n", len(rows))
	return 0
}

func renderFailures(w io.Writer, failures []model.ImportFailure) {
	table := tablewriter.NewWriter(w)
	table.Header("Order ID", "Error")
	for _, f := range failures {
		_ = table.Append([]string{f.OrderID, f.Reason})
	}
	_ = table.Render()
}

func renderSummary(w io.Writer, parsed int, res model.ImportResult) {
	table := tablewriter.NewWriter(w)
	table.Header("Parsed", "Imported", "Failed", "Skipped")
	_ = table.Append([]string{
		strconv.Itoa(parsed),
		strconv.Itoa(res.Imported),
		strconv.Itoa(len(res.Errors)),
		strconv.Itoa(res.Skipped),
	})
	_ = table.Render()
}
