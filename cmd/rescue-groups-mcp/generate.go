package main

import (
	"fmt"
	"strings"
)

var subcommandNames = []string{
	"server", "http", "search", "get-animal", "get-contact", "compare",
	"search-orgs", "get-org", "list-org-animals", "list-adopted",
	"list-species", "list-breeds", "get-breed", "list-metadata",
	"list-metadata-types", "random-pet",
}

func cmdGenerate(args []string) error {
	flags := parseFlags(args)
	switch {
	case flags["man"] == "true":
		fmt.Print(generateMan())
		return nil
	case flags["shell"] != "":
		return generateCompletion(flags["shell"])
	default:
		return fmt.Errorf("generate requires --man or --shell <bash|zsh|fish|powershell>")
	}
}

func generateCompletion(shell string) error {
	switch shell {
	case "bash":
		fmt.Printf("complete -W %q rescue-groups-mcp\n", strings.Join(subcommandNames, " "))
	case "zsh":
		fmt.Printf("#compdef rescue-groups-mcp\n_arguments '1:command:(%s)'\n", strings.Join(subcommandNames, " "))
	case "fish":
		for _, name := range subcommandNames {
			fmt.Printf("complete -c rescue-groups-mcp -n __fish_use_subcommand -a %s\n", name)
		}
	case "powershell":
		fmt.Printf("Register-ArgumentCompleter -Native -CommandName rescue-groups-mcp -ScriptBlock {\n")
		fmt.Printf("    param($wordToComplete, $commandAst, $cursorPosition)\n")
		fmt.Printf("    @(%s) | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n", quotedPowershellList(subcommandNames))
		fmt.Printf("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
		fmt.Printf("    }\n}\n")
	default:
		return fmt.Errorf("unsupported shell %q (want bash, zsh, fish, or powershell)", shell)
	}
	return nil
}

func quotedPowershellList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ",")
}

func generateMan() string {
	var b strings.Builder
	b.WriteString(".TH RESCUE-GROUPS-MCP 1\n")
	b.WriteString(".SH NAME\nrescue-groups-mcp \\- MCP gateway for the RescueGroups.org adoption API\n")
	b.WriteString(".SH SYNOPSIS\n.B rescue-groups-mcp\n[command] [flags]\n")
	b.WriteString(".SH COMMANDS\n")
	for _, name := range subcommandNames {
		fmt.Fprintf(&b, ".TP\n.B %s\n", name)
	}
	return b.String()
}
