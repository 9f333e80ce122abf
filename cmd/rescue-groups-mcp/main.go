package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rescue-groups-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	subcmd := "server"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "server":
		return cmdServer(args)
	case "http":
		return cmdHTTP(args)
	case "search":
		return cmdSearch(args)
	case "get-animal":
		return cmdGetAnimal(args)
	case "get-contact":
		return cmdGetContact(args)
	case "compare":
		return cmdCompare(args)
	case "search-orgs":
		return cmdSearchOrgs(args)
	case "get-org":
		return cmdGetOrg(args)
	case "list-org-animals":
		return cmdListOrgAnimals(args)
	case "list-adopted":
		return cmdListAdopted(args)
	case "list-species":
		return cmdListSpecies(args)
	case "list-breeds":
		return cmdListBreeds(args)
	case "get-breed":
		return cmdGetBreed(args)
	case "list-metadata":
		return cmdListMetadata(args)
	case "list-metadata-types":
		return cmdListMetadataTypes(args)
	case "random-pet":
		return cmdRandomPet(args)
	case "generate":
		return cmdGenerate(args)
	default:
		return fmt.Errorf("unknown command: %s\nUsage: rescue-groups-mcp [server|http|search|get-animal|get-contact|compare|search-orgs|get-org|list-org-animals|list-adopted|list-species|list-breeds|get-breed|list-metadata|list-metadata-types|random-pet|generate]", subcmd)
	}
}
