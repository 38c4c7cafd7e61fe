package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/samber/lo"
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	timeout
)

var resultTypes = map[ResultType]string{
	solved:        "solved",
	unsatisfiable: "unsatisfiable",
	timeout:       "timeout",
}

type BenchmarkResult struct {
	Request  string `csv:"request"`
	Size     int    `csv:"size"`
	Result   string `csv:"result"`
	Failure  string `csv:"failure"`
	Options  string `csv:"options"`
	Explored uint64 `csv:"explored"`
	Duration int64  `csv:"duration_us"`
}

type job struct {
	index   int
	request []string
}

type outcome struct {
	index  int
	result BenchmarkResult
}

func main() {
	catalogPtr := flag.String("catalog", "", "Path to the raw catalog export")
	classesPtr := flag.String("classes", "", "Path to the course table; used when no raw catalog is given")
	categoriesPtr := flag.String("categories", "", "Path to the general-education category table")
	requestsPtr := flag.Int("requests", 100, "Number of random requests")
	sizePtr := flag.Int("size", 5, "Identifiers per request")
	workersPtr := flag.Int("workers", 4, "Concurrent solves")
	seedPtr := flag.Uint64("seed", 1, "Seed for requests and shuffles")
	nodeLimitPtr := flag.Uint64("node-limit", 1_000_000, "Maximum number of classes examined per request")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV output")
	flag.Parse()

	if *catalogPtr == "" && *classesPtr == "" {
		log.Fatal("a catalog must be specified")
	} else if *requestsPtr <= 0 || *sizePtr <= 0 || *workersPtr <= 0 {
		log.Fatal("requests, size and workers must be positive")
	}

	var catalog model.Catalog
	var err error
	if *catalogPtr != "" {
		catalog, err = model.CatalogFromJson(*catalogPtr)
	} else {
		catalog, err = model.CatalogFromTables(*classesPtr, *categoriesPtr)
	}
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	random := rand.New(rand.NewPCG(*seedPtr, *seedPtr))
	requests := randomRequests(catalog, *requestsPtr, *sizePtr, random)
	restrictions := model.DefaultRestrictions()
	restrictions.AllowedCampuses = model.Campuses

	fmt.Printf("Benchmarking %v requests of %v identifiers with %v workers\n", len(requests), *sizePtr, *workersPtr)
	results := benchmark(catalog, requests, restrictions, *workersPtr, *seedPtr, *nodeLimitPtr)

	counts := lo.CountValuesBy(results, func(result BenchmarkResult) string { return result.Result })
	for _, resultType := range []ResultType{solved, unsatisfiable, timeout} {
		fmt.Printf("%v: %v\n", resultTypes[resultType], counts[resultTypes[resultType]])
	}

	toCsv(*outPtr, results)
}

// randomRequests draws distinct identifiers among course codes and the categories present in the catalog
func randomRequests(catalog model.Catalog, count, size int, random *rand.Rand) [][]string {
	identifiers := lo.Keys(catalog.Courses)
	identifiers = append(identifiers, lo.Filter(model.GeneralEducationCategories, func(category string, _ int) bool {
		_, ok := catalog.Categories[category]
		return ok
	})...)
	slices.Sort(identifiers) // Map order must not leak into the draw
	size = min(size, len(identifiers))

	requests := make([][]string, 0, count)
	for range count {
		request := slices.Clone(identifiers)
		random.Shuffle(len(request), func(i, j int) {
			request[i], request[j] = request[j], request[i]
		})
		requests = append(requests, request[:size])
	}
	return requests
}

// benchmark solves the requests on a pool of workers, each owning its timetabler and random source.
// The catalog is shared read-only. Results come back in request order
func benchmark(catalog model.Catalog, requests [][]string, restrictions model.Restrictions, workers int, seed, nodeLimit uint64) []BenchmarkResult {
	jobs := make(chan job)
	outcomes := make(chan outcome)

	for worker := range workers {
		go func(timetabler model.Timetabler) {
			for job := range jobs {
				outcomes <- outcome{index: job.index, result: measure(timetabler, catalog, job.request, restrictions)}
			}
		}(model.NewBacktrackingTimetabler(model.NewRandomShuffler(seed+uint64(worker)), nodeLimit))
	}

	go func() {
		for i, request := range requests {
			jobs <- job{index: i, request: request}
		}
		close(jobs)
	}()

	results := make([]BenchmarkResult, len(requests))
	for range requests {
		outcome := <-outcomes
		results[outcome.index] = outcome.result
	}
	return results
}

func measure(timetabler model.Timetabler, catalog model.Catalog, request []string, restrictions model.Restrictions) BenchmarkResult {
	start := time.Now()
	schedule, diagnostics, err := timetabler.Build(catalog, request, restrictions)
	duration := time.Since(start)

	var limitErr model.SearchLimitError
	result := solved
	if errors.As(err, &limitErr) {
		result = timeout
	} else if err != nil {
		log.Panicf("unexpected error while solving %v: %v", request, err)
	} else if schedule == nil {
		result = unsatisfiable
	} else if !timetabler.Verify(schedule, catalog, request, restrictions) {
		log.Panicf("verification failed for %v", request)
	}

	return BenchmarkResult{
		Request:  strings.Join(request, ";"),
		Size:     len(request),
		Result:   resultTypes[result],
		Failure:  diagnostics.Failure.String(),
		Options:  strings.Join(lo.Map(diagnostics.Options, func(options int, _ int) string { return fmt.Sprint(options) }), ";"),
		Explored: diagnostics.Explored,
		Duration: duration.Microseconds(),
	}
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}
