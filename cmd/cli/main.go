package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/armahorarios/pkg/config"
	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/limaJavier/armahorarios/pkg/render"
	"github.com/samber/lo"
)

var (
	validFormats = []string{"grid", "list", "json", "csv"}
	renderers    = map[string]func(*bytes.Buffer, model.Schedule) error{
		"grid": func(out *bytes.Buffer, schedule model.Schedule) error {
			_, err := fmt.Fprintln(out, render.Grid(schedule))
			if err == nil {
				_, err = fmt.Fprint(out, "\n", render.Listing(schedule))
			}
			return err
		},
		"list": func(out *bytes.Buffer, schedule model.Schedule) error {
			_, err := fmt.Fprint(out, render.Listing(schedule))
			return err
		},
		"json": func(out *bytes.Buffer, schedule model.Schedule) error {
			return render.WriteJSON(out, schedule)
		},
		"csv": func(out *bytes.Buffer, schedule model.Schedule) error {
			return render.WriteCSV(out, schedule)
		},
	}
)

func main() {
	// Define arguments
	configPtr := flag.String("config", "", "Path to a config.json file; if empty, a config.json next to the executable is used when present")
	catalogPtr := flag.String("catalog", "", "Path to the raw catalog export ({\"resources\": [...]})")
	classesPtr := flag.String("classes", "", "Path to the course table (code -> {name, sections}); used when no raw catalog is given")
	categoriesPtr := flag.String("categories", "", "Path to the general-education category table (category -> sections)")
	restrictionsPtr := flag.String("restrictions", "", "Path to a restrictions file; if empty, the configured restrictions are used")
	coursesPtr := flag.String("courses", "", "Comma separated course codes and general-education categories, e.g. \"IIC2523,MAT1610,Artes\"")
	searchPtr := flag.String("search", "", "Print the course codes containing the given text and exit")
	seedPtr := flag.Uint64("seed", 0, "Seed for the section shuffle; 0 picks a random seed")
	noShufflePtr := flag.Bool("no-shuffle", false, "Keep catalog order instead of shuffling sections")
	nodeLimitPtr := flag.Uint64("node-limit", 0, "Maximum number of classes examined by the search; 0 uses the configured limit (unbounded by default)")
	formatPtr := flag.String("format", "", "Output format. Allowed values are: \"grid\", \"list\", \"json\", \"csv\"; if empty, the configured format is used")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flag.Parse()

	// Load configuration, flags take precedence
	cfg := loadConfig(*configPtr)
	if *catalogPtr != "" || *classesPtr != "" {
		cfg.Catalog, cfg.Classes, cfg.Categories = *catalogPtr, *classesPtr, *categoriesPtr
	}
	if *nodeLimitPtr != 0 {
		cfg.NodeLimit = *nodeLimitPtr
	}
	if *formatPtr != "" {
		cfg.Format = *formatPtr
	}
	cfg.Format = strings.ToLower(cfg.Format)
	identifiers := parseIdentifiers(*coursesPtr)

	// Validate arguments
	if !slices.Contains(validFormats, cfg.Format) {
		log.Fatalf("%v is not a valid format", cfg.Format)
	} else if cfg.Catalog == "" && cfg.Classes == "" {
		log.Fatal("a catalog must be specified")
	} else if *searchPtr == "" && len(identifiers) == 0 {
		log.Fatal("at least one course or category must be specified")
	}

	// Extract input
	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	if *searchPtr != "" {
		for _, code := range catalog.SearchCodes(*searchPtr) {
			fmt.Printf("%v - %v\n", code, catalog.Courses[code].Name)
		}
		return
	}

	var restrictions model.Restrictions
	if *restrictionsPtr != "" {
		restrictions, err = model.RestrictionsFromJson(*restrictionsPtr)
	} else {
		restrictions, err = cfg.ParseRestrictions()
	}
	if err != nil {
		log.Fatalf("cannot load restrictions: %v", err)
	}

	// Initialize engine
	var shuffler model.Shuffler
	if *noShufflePtr {
		shuffler = model.NewIdentityShuffler()
	} else {
		seed := *seedPtr
		if seed == 0 {
			seed = rand.Uint64()
		}
		shuffler = model.NewRandomShuffler(seed)
	}
	timetabler := model.NewBacktrackingTimetabler(shuffler, cfg.NodeLimit)

	// Build schedule
	schedule, diagnostics, err := timetabler.Build(catalog, identifiers, restrictions)

	var limitErr model.SearchLimitError
	if errors.As(err, &limitErr) {
		log.Printf("search stopped after examining %v classes; raise -node-limit or relax the restrictions", limitErr.Limit)
		os.Exit(20)
	} else if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	} else if schedule == nil {
		reportFailure(diagnostics)
		os.Exit(20)
	}

	// Verify schedule correctness
	if !timetabler.Verify(schedule, catalog, identifiers, restrictions) {
		log.Fatal("verification failed")
	}

	// Line the classes up with the request
	schedule, err = model.OrderByRequest(schedule, catalog, identifiers)
	if err != nil {
		log.Fatalf("cannot match the schedule to the request: %v", err)
	}

	var output bytes.Buffer
	if err := renderers[cfg.Format](&output, schedule); err != nil {
		log.Fatalf("an error occurred while building output: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePathPtr == "" {
		fmt.Print(output.String())
	} else {
		err := os.WriteFile(*outFilePathPtr, output.Bytes(), 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	os.Exit(10)
}

func loadConfig(file string) config.Config {
	if file == "" {
		located, err := config.Locate()
		if err != nil {
			log.Fatalf("cannot locate %v: %v", config.FileName, err)
		} else if located == "" {
			return config.Default()
		}
		file = located
	}

	cfg, err := config.Load(file)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}

func loadCatalog(cfg config.Config) (model.Catalog, error) {
	if cfg.Catalog != "" {
		return model.CatalogFromJson(cfg.Catalog)
	}
	return model.CatalogFromTables(cfg.Classes, cfg.Categories)
}

func parseIdentifiers(courses string) []string {
	return lo.Uniq(lo.FilterMap(strings.Split(courses, ","), func(identifier string, _ int) (string, bool) {
		identifier = strings.TrimSpace(identifier)
		return identifier, identifier != ""
	}))
}

func reportFailure(diagnostics model.Diagnostics) {
	for _, identifier := range diagnostics.Unknown {
		log.Printf("%v was not found in the catalog", identifier)
	}
	for _, identifier := range diagnostics.OverConstrained {
		log.Printf("%v has no section left under the given restrictions", identifier)
	}
	if diagnostics.Failure == model.NoCombination {
		log.Printf("no conflict-free combination exists (%v classes examined)", diagnostics.Explored)
	}
	fmt.Println("No valid schedule was found with the given restrictions")
}
