package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goThrottle "github.com/MrEthical07/goThrottle"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		identities  = flag.Int("identities", 10000, "number of distinct client identities")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "admission checks per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		category    = flag.String("category", "api", "category to admit against")
	)
	flag.Parse()

	if *identities <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "identities, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	engine, err := goThrottle.New().
		WithRedis(client).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	anonymous := make([]goThrottle.ClientIdentity, *identities)
	for i := range anonymous {
		anonymous[i] = goThrottle.ResolveIdentity(nil, fmt.Sprintf("10.%d.%d.%d", i>>16&0xFF, i>>8&0xFF, i&0xFF))
	}

	authenticated := make([]goThrottle.ClientIdentity, *identities)
	for i := range authenticated {
		authenticated[i] = goThrottle.ResolveIdentity(&goThrottle.Principal{
			ID:   fmt.Sprintf("user-%d", i),
			Type: "user",
			Role: "doctor",
		}, "203.0.113.1")
	}

	anonStats := runAdmitPhase(ctx, engine, *category, anonymous, *ops, *concurrency)
	authStats := runAdmitPhase(ctx, engine, *category, authenticated, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("anonymous", anonStats)
	printStats("authenticated", authStats)

	snapshot := engine.MetricsSnapshot()
	fmt.Printf("engine counters: allowed=%d rate_limited=%d blocked=%d fail_open=%d\n",
		snapshot.Counters[goThrottle.MetricAdmitAllowed],
		snapshot.Counters[goThrottle.MetricAdmitRateLimited],
		snapshot.Counters[goThrottle.MetricAdmitBlocked],
		snapshot.Counters[goThrottle.MetricFailOpen],
	)
}

func runAdmitPhase(ctx context.Context, engine *goThrottle.Engine, category string, identities []goThrottle.ClientIdentity, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		denied    int64
		degraded  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(identities))
				t0 := time.Now()
				decision := engine.Admit(ctx, goThrottle.AdmitRequest{
					Category: category,
					Identity: identities[idx],
				})
				d := time.Since(t0)
				if !decision.Allowed() {
					atomic.AddInt64(&denied, 1)
				}
				if decision.Degraded {
					atomic.AddInt64(&degraded, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, denied, degraded)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	denied   int64
	degraded int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, denied, degraded int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		denied:   denied,
		degraded: degraded,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d denied=%d degraded=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.denied,
		s.degraded,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
