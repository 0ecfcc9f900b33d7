// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"go.qapic.dev/qapic/internal/ctxlog"
	"go.qapic.dev/qapic/schema"
)

type cmdCheck struct {
	verbose bool
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check SCHEMA...",
		summary: "Parse and validate schema documents",
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	flags.BoolVarP(&cmd.verbose, "verbose", "v", false, "enable debug logging")
}

func (cmd *cmdCheck) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: qapic check SCHEMA...")
		return 1
	}
	ctx = ctxlog.With(ctx, newLogger(cmd.verbose))

	ok := true
	for _, fname := range argv {
		if err := checkSchema(ctx, fname); err != nil {
			fmt.Fprintln(os.Stderr, err)
			ok = false
		}
	}
	if !ok {
		return 1
	}
	return 0
}

func checkSchema(ctx context.Context, fname string) error {
	log := ctxlog.FromContext(ctx)
	start := time.Now()
	s, err := schema.Load(fname)
	if err != nil {
		return err
	}
	log.Debug("schema checked",
		"schema", fname,
		"modules", len(s.Modules()),
		"entities", len(s.Entities()),
		"elapsed", time.Since(start))
	return nil
}
