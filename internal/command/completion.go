// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tagwatch/internal/meta"
)

const bashCompletionScript = `# bash completion for tagwatch
_tagwatch()
{
    local cur prev cmd
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "run compare completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --filter -f --services --summary --entries-path --id-path --prefixes-path"

    case "$cmd" in
        run)
            local opts="$common --url -u --cache --cache-ttl --store --dir -d --bucket --prefix --region --profile --endpoint --max-attempts"
            ;;
        compare)
            local opts="$common --output -o --delta"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "local s3" -- "$cur") )
            return 0
            ;;
        --dir|-d)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* || "$cmd" != "compare" ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _tagwatch tagwatch
`

const zshCompletionScript = `#compdef tagwatch

_tagwatch() {
  local -a cmds
  cmds=(
    'run:fetch the service tags and log changes since the last run'
    'compare:compare two service tag documents'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-c --color)'{-c,--color}'[enable colored text output]'
    '(-f --filter)'{-f,--filter}'[filters on id, prefix or net]:filter'
    '--services[report added and removed service tags]'
    '--summary[print a per-service summary table]'
    '--entries-path[gjson path of the entry array]:path'
    '--id-path[gjson path of the identifier]:path'
    '--prefixes-path[gjson path of the prefix array]:path'
  )

  if (( CURRENT == 2 )); then
    _describe 'command' cmds
    return
  fi

  case $words[2] in
    run)
      _arguments -C \
        $common \
        '(-u --url)'{-u,--url}'[document to fetch]:url' \
        '--cache[reuse a downloaded copy]' \
        '--cache-ttl[maximum age of a reused download]:duration' \
        '--store[snapshot store]:store:(local s3)' \
        '(-d --dir)'{-d,--dir}'[local store directory]:dir:_directories' \
        '--bucket[s3 bucket]:bucket' \
        '--prefix[s3 key prefix]:prefix' \
        '--region[AWS region]:region' \
        '--profile[AWS profile]:profile' \
        '--endpoint[S3-compatible endpoint]:endpoint' \
        '--max-attempts[attempts per s3 request]:attempts'
      ;;
    compare)
      _arguments -C \
        $common \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '--delta[structural diff of the raw documents]' \
        '1:old:_files' \
        '2:new:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _tagwatch tagwatch
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: tagwatch completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "tagwatch completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
