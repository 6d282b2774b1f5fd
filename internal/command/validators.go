// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/report"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects combinations the individual validators can't
// see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.String("store") == "s3" && c.String("bucket") == "" {
		return fmt.Errorf("--bucket is required with --store s3")
	}
	if c.IsSet("summary") && c.String("output") != "" && c.String("output") != "text" {
		return fmt.Errorf("--summary is only available with text output")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, report.Formats)
}

func StoreValidator(value any) error {
	return oneOf(value, []string{"local", "s3"})
}

func oneOf(value any, valid []string) error {
	s, ok := value.(string)
	if !ok || !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
