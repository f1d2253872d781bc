// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command bulklinks adds signed score links to a recipient CSV.
//
//	bulklinks [-env development] [-signing-key ...] [-host ...] <input.csv> [output.csv]
//
// Settings come from flags, the environment or a .env file, the same as the server.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-score/bulk"
	"github.com/danielhkuo/quickly-score/cliparse"
	"github.com/danielhkuo/quickly-score/links"
	"github.com/danielhkuo/quickly-score/token"
)

const usage = `Usage: bulklinks [flags] <input_csv_file> [output_csv_file]

Input CSV format:
email,campaign,school
teacher@example.com,fall-2025,HighSchool1
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("bulk link generation failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, rest, err := cliparse.ParseLinkFlags("bulklinks", args)
	if err != nil {
		return err
	}
	if len(rest) < 1 || len(rest) > 2 {
		fmt.Fprint(stdout, usage)
		return errors.New("expected an input file and an optional output file")
	}

	input := rest[0]
	output := bulk.OutputPath(input)
	if len(rest) == 2 {
		output = rest[1]
	}
	if output == input {
		return errors.New("output file must differ from input file")
	}

	codec, err := token.NewCodec([]byte(cfg.SigningKey))
	if err != nil {
		return err
	}
	issuer, err := links.NewLinkIssuer(codec, cfg.AppHost, cfg.ScoreRange())
	if err != nil {
		return err
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	sum, err := bulk.Generate(in, out, issuer)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Successfully generated links for %s rows.\n", humanize.Comma(int64(sum.Written)))
	if sum.Skipped > 0 {
		fmt.Fprintf(stdout, "Skipped %s rows without an email.\n", humanize.Comma(int64(sum.Skipped)))
	}
	fmt.Fprintf(stdout, "Output written to: %s\n", output)
	return nil
}
