// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestBuildPage(t *testing.T) {
	sub := &cli.Command{
		Name:      "run",
		Usage:     "fetch and compare",
		UsageText: "tagwatch run [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "document", Value: "https://example.com", Sources: cli.EnvVars("TAGWATCH_URL")},
			&cli.BoolFlag{Name: "cache", Usage: "reuse downloads"},
		},
	}

	page := buildPage(sub, []Example{{Command: "tagwatch run", Description: "Track Azure"}}, "1.2.3")

	require.Len(t, page.Flags, 2)
	assert.Equal(t, "--cache", page.Flags[0].Syntax)
	assert.Equal(t, "--url, -u", page.Flags[1].Syntax)
	assert.Equal(t, "TAGWATCH_URL", page.Flags[1].Env)
	assert.Equal(t, "RUN", page.IDUpper)

	tmpl, err := template.New("page").Parse(pageTemplate)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, tmpl, page))
	assert.Contains(t, buf.String(), "# tagwatch run")
	assert.Contains(t, buf.String(), "| `--url, -u` | document |")
	assert.Contains(t, buf.String(), "Track Azure")
}

func TestGenerate(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TAGWATCH_CFG_FILE", filepath.Join(tmp, "absent.yaml"))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "examples.yaml"),
		[]byte("compare:\n  - command: tagwatch compare old.json new.json\n    description: Diff two downloads\n"), 0o600))

	require.NoError(t, generate(tmp))

	body, err := os.ReadFile(filepath.Join(tmp, "commands", "compare.md"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Diff two downloads")
	assert.FileExists(t, filepath.Join(tmp, "commands", "run.md"))
}
