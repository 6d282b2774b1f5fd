// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes a markdown reference page per tagwatch subcommand,
// built from the live CLI definition plus the examples in
// <docs>/examples.yaml.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/tagwatch/internal/command"
)

//go:embed command.md.tmpl
var pageTemplate string

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	Syntax  string
	Usage   string
	Default string
	Env     string
}

type Page struct {
	ID       string
	Short    string
	Usage    string
	Flags    []Flag
	Examples []Example
	Date     string
	Version  string
	IDUpper  string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCSDIR")
		os.Exit(1)
	}
	if err := generate(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(docs string) error {
	examples := map[string][]Example{}
	if data, err := os.ReadFile(filepath.Join(docs, "examples.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &examples); err != nil {
			return fmt.Errorf("failed to parse examples: %w", err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"tagwatch"})
	if err != nil {
		return err
	}

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return err
	}

	version := getVersion()
	for _, sub := range app.Commands {
		page := buildPage(sub, examples[sub.Name], version)

		path := filepath.Join(folder, sub.Name+".md")
		fmt.Println("Generating", path)
		if err := writePage(path, tmpl, page); err != nil {
			return err
		}
	}
	return nil
}

func writePage(path string, tmpl *template.Template, page Page) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return render(file, tmpl, page)
}

func render(w io.Writer, tmpl *template.Template, page Page) error {
	return tmpl.Execute(w, page)
}

func buildPage(sub *cli.Command, examples []Example, version string) Page {
	page := Page{
		ID:       sub.Name,
		Short:    sub.Usage,
		Usage:    sub.UsageText,
		Examples: examples,
		Date:     time.Now().Format("January 2, 2006"),
		Version:  version,
		IDUpper:  strings.ToUpper(sub.Name),
	}

	for _, f := range sub.Flags {
		names := f.Names()
		syntax := "--" + names[0]
		for _, alias := range names[1:] {
			syntax += ", -" + alias
		}

		flag := Flag{Syntax: syntax}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			flag.Usage = df.GetUsage()
			if df.TakesValue() {
				flag.Default = df.GetValue()
			}
			flag.Env = strings.Join(df.GetEnvVars(), ", ")
		}
		page.Flags = append(page.Flags, flag)
	}

	sort.Slice(page.Flags, func(i, j int) bool {
		return page.Flags[i].Syntax < page.Flags[j].Syntax
	})

	return page
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
