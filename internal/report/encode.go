// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/tfctl/tagwatch/internal/differ"
)

// Formats lists the values Encode accepts.
var Formats = []string{"text", "json", "yaml"}

// document is the serialized shape of a differ.Result.
type document struct {
	Added           []string  `json:"added" yaml:"added"`
	Removed         []string  `json:"removed" yaml:"removed"`
	AddedServices   *[]string `json:"added_services,omitempty" yaml:"added_services,omitempty"`
	RemovedServices *[]string `json:"removed_services,omitempty" yaml:"removed_services,omitempty"`
}

// Encode writes r to w in format. text is the change log, json and yaml carry
// sorted arrays. Service sets are included only when opts.Services is set.
func Encode(w io.Writer, r differ.Result, format string, opts Options) error {
	doc := document{
		Added:   r.Added.Sorted(),
		Removed: r.Removed.Sorted(),
	}
	if opts.Services {
		added, removed := r.AddedServices.Sorted(), r.RemovedServices.Sorted()
		doc.AddedServices, doc.RemovedServices = &added, &removed
	}

	switch format {
	case "", "text":
		_, err := w.Write(Render(r, opts))
		return err
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q, must be one of %v", format, Formats)
	}
}
