package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/QingYi-Studio/tylddb/cmd/util"
	"github.com/QingYi-Studio/tylddb/lib/lddb"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the in-memory store",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfOpsPerTest = 100000
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add,get)"))
	key = "threads"
	perfCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfCmd.Flags().Int(key, 100000, util.WrapString("Operations per benchmark"))
	key = "keys"
	perfCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerTest = viper.GetInt("ops")
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for the in-memory store")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations per test: %d\n", perfOpsPerTest)
	fmt.Printf("Key spread: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := metrics.NewRegistry()
	st := engine.Store()
	testValue := lddb.Value{Type: lddb.TypeString, Str: "test"}

	runTimed(registry, "add", func(i int) {
		_, _ = st.Add(string(lddb.TypeString), perfKey("add", i), testValue)
	})

	prefill("get")
	runTimed(registry, "get", func(i int) {
		_, _ = st.Get(string(lddb.TypeString), perfKey("get", i))
	})

	runTimed(registry, "get-miss", func(i int) {
		_, _ = st.Get(string(lddb.TypeString), perfKey("get-miss", i))
	})

	prefill("update")
	runTimed(registry, "update", func(i int) {
		_, _ = st.UpdateValue(string(lddb.TypeString), perfKey("update", i), testValue)
	})

	prefill("search")
	runTimed(registry, "search", func(i int) {
		_, _ = st.SearchAllByKey(perfKey("search", i))
	})

	prefill("mixed")
	runTimed(registry, "mixed", func(i int) {
		key := perfKey("mixed", i)
		switch i % 4 {
		case 0:
			_, _ = st.Add(string(lddb.TypeString), key, testValue)
		case 1:
			_, _ = st.Get(string(lddb.TypeString), key)
		case 2:
			_, _ = st.UpdateValue(string(lddb.TypeString), key, testValue)
		case 3:
			_, _ = st.ContainsKey(string(lddb.TypeString), key)
		}
	})

	prefill("del")
	runTimed(registry, "del", func(i int) {
		_, _ = st.RemoveKey(string(lddb.TypeString), perfKey("del", i))
	})

	cleanup()

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfKey maps an op counter to one of the test keys (with wraparound)
func perfKey(test string, i int) string {
	return fmt.Sprintf("%s-%s-%d", perfKeyPrefix, test, i%perfKeySpread)
}

// prefill inserts the key spread for tests that expect present keys
func prefill(test string) {
	st := engine.Store()
	testValue := lddb.Value{Type: lddb.TypeString, Str: "test"}
	for i := 0; i < perfKeySpread; i++ {
		_, _ = st.Add(string(lddb.TypeString), perfKey(test, i), testValue)
	}
}

// cleanup removes every key the perf run inserted
func cleanup() {
	st := engine.Store()
	keys, err := st.GetKeysByType(string(lddb.TypeString))
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, perfKeyPrefix) {
			_, _ = st.RemoveKey(string(lddb.TypeString), k)
		}
	}
}

// runTimed drives one benchmark across the configured threads, recording
// per-op latencies in a timer registered under the test name
func runTimed(registry metrics.Registry, test string, op func(int)) {
	if shouldSkip(test) {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	timer := metrics.GetOrRegisterTimer(test, registry)

	var wg sync.WaitGroup
	opsPerThread := perfOpsPerTest / perfNumThreads

	start := time.Now()
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < opsPerThread; i++ {
				opStart := time.Now()
				op(base + i)
				timer.UpdateSince(opStart)
			}
		}(t * opsPerThread)
	}
	wg.Wait()
	elapsed := time.Since(start)

	printResult(test, timer, elapsed)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer, elapsed time.Duration) {
	opsPerSec := float64(timer.Count()) / elapsed.Seconds()
	fmt.Printf("%-20s%.0fns/op (p95 %.0fns, p99 %.0fns)\t%.0f ops/sec\n",
		test, timer.Mean(), timer.Percentile(0.95), timer.Percentile(0.99), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "P99Ns", "MaxNs",
		"Threads", "Ops", "Keys",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	var writeErr error
	registry.Each(func(name string, metric interface{}) {
		timer, ok := metric.(metrics.Timer)
		if !ok || writeErr != nil {
			return
		}
		row := []string{
			name,
			strconv.FormatInt(timer.Count(), 10),
			strconv.FormatFloat(timer.Mean(), 'f', 0, 64),
			strconv.FormatFloat(timer.Percentile(0.95), 'f', 0, 64),
			strconv.FormatFloat(timer.Percentile(0.99), 'f', 0, 64),
			strconv.FormatInt(timer.Max(), 10),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerTest),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(row); err != nil {
			writeErr = fmt.Errorf("failed to write CSV row: %v", err)
		}
	})
	return writeErr
}
