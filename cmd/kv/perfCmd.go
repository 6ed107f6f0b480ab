package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/kv"
	"github.com/ValentinKolb/hKV/rpc/client"
	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for hKV servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfTable            = "__perf"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfRequests         = 10000
	perfSkip             = make([]string, 0)
)

// scenario is one benchmark, op is called with the index of the request
type scenario struct {
	name    string
	prepare func(keys []string) error
	op      func(keys []string, i int) error
}

// scenarioResult holds the timer of a finished scenario
type scenarioResult struct {
	name    string
	timer   metrics.Timer
	errors  int64
	elapsed time.Duration
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. hset,hget)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent workers"))
	key = "requests"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("Number of requests per benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the hset-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(1, viper.GetInt("keys"))
	perfNumThreads = max(1, viper.GetInt("threads"))
	perfRequests = max(1, viper.GetInt("requests"))
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for hKV servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Requests: %d, Keys: %d\n", perfNumThreads, perfRequests, perfKeySpread)
	fmt.Println()

	results := make([]scenarioResult, 0)
	for _, sc := range scenarios(rpcClient) {
		if slices.Contains(perfSkip, sc.name) {
			fmt.Printf("%-14sskipped\n", sc.name)
			continue
		}

		result, err := runScenario(sc)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
		printResult(result)
		results = append(results, result)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Scenarios
// --------------------------------------------------------------------------

// scenarios returns all benchmarks in execution order
func scenarios(c *client.Client) []scenario {
	small := kv.NewString("test")
	large := kv.NewBinary(make([]byte, perfLargeValueSizeKB*1024))
	setAll := func(keys []string) error {
		for _, k := range keys {
			if _, err := c.Hset(perfTable, k, small); err != nil {
				return err
			}
		}
		return nil
	}

	return []scenario{
		{
			name: "hset",
			op: func(keys []string, i int) error {
				_, err := c.Hset(perfTable, keys[i%len(keys)], small)
				return err
			},
		},
		{
			name: "hset-large",
			op: func(keys []string, i int) error {
				_, err := c.Hset(perfTable, keys[i%len(keys)], large)
				return err
			},
		},
		{
			name:    "hget",
			prepare: setAll,
			op: func(keys []string, i int) error {
				_, err := c.Hget(perfTable, keys[i%len(keys)])
				return err
			},
		},
		{
			name:    "hexist",
			prepare: setAll,
			op: func(keys []string, i int) error {
				_, err := c.Hexist(perfTable, keys[i%len(keys)])
				return err
			},
		},
		{
			name: "hexist-not",
			op: func(keys []string, i int) error {
				_, err := c.Hexist(perfTable, fmt.Sprintf("%s-not", keys[i%len(keys)]))
				return err
			},
		},
		{
			name:    "hgetall",
			prepare: setAll,
			op: func(_ []string, _ int) error {
				_, err := c.Hgetall(perfTable)
				return err
			},
		},
		{
			name:    "hdel",
			prepare: setAll,
			op: func(keys []string, i int) error {
				_, err := c.Hdel(perfTable, keys[i%len(keys)])
				return err
			},
		},
		{
			name:    "mixed",
			prepare: setAll,
			op: func(keys []string, i int) error {
				key := keys[i%len(keys)]
				var err error
				switch i % 4 {
				case 0:
					_, err = c.Hset(perfTable, key, small)
				case 1:
					_, err = c.Hget(perfTable, key)
					if client.IsNotFound(err) {
						err = nil
					}
				case 2:
					_, err = c.Hdel(perfTable, key)
				case 3:
					_, err = c.Hexist(perfTable, key)
				}
				return err
			},
		},
	}
}

// runScenario runs the requests of sc on perfNumThreads workers and removes the keys afterward
func runScenario(sc scenario) (scenarioResult, error) {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%d", sc.name, i)
	}
	defer func() {
		for _, k := range keys {
			_, _ = rpcClient.Hdel(perfTable, k)
		}
	}()

	if sc.prepare != nil {
		if err := sc.prepare(keys); err != nil {
			return scenarioResult{}, fmt.Errorf("failed to prepare keys: %w", err)
		}
	}

	timer := metrics.NewTimer()
	defer timer.Stop()
	errorCount := metrics.NewCounter()

	var g errgroup.Group
	start := time.Now()
	for w := 0; w < perfNumThreads; w++ {
		// distribute the requests evenly, the first workers take the remainder
		n := perfRequests / perfNumThreads
		if w < perfRequests%perfNumThreads {
			n++
		}
		g.Go(func() error {
			for i := 0; i < n; i++ {
				opStart := time.Now()
				if err := sc.op(keys, w+i*perfNumThreads); err != nil {
					errorCount.Inc(1)
					continue
				}
				timer.UpdateSince(opStart)
			}
			return nil
		})
	}
	_ = g.Wait()

	return scenarioResult{
		name:    sc.name,
		timer:   timer,
		errors:  errorCount.Count(),
		elapsed: time.Since(start),
	}, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// rate returns the successful requests per second of r
func (r scenarioResult) rate() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.elapsed.Seconds()
}

// printResult prints the result of a benchmark in a formatted way
func printResult(r scenarioResult) {
	fmt.Printf("%-14scount=%-8d mean=%-12s p50=%-12s p99=%-12s %10.0f ops/sec errors=%d\n",
		r.name,
		r.timer.Count(),
		time.Duration(r.timer.Mean()),
		time.Duration(r.timer.Percentile(0.5)),
		time.Duration(r.timer.Percentile(0.99)),
		r.rate(),
		r.errors,
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []scenarioResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "Errors", "MeanNs", "P50Ns", "P99Ns", "OpsPerSec",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.name,
			strconv.FormatInt(r.timer.Count(), 10),
			strconv.FormatInt(r.errors, 10),
			fmt.Sprintf("%.0f", r.timer.Mean()),
			fmt.Sprintf("%.0f", r.timer.Percentile(0.5)),
			fmt.Sprintf("%.0f", r.timer.Percentile(0.99)),
			fmt.Sprintf("%.0f", r.rate()),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.name, err)
		}
	}

	return nil
}
