// Command loadtest replays device signals against a running tracker and
// measures read latency while the loop is busy.
package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 20
	testDuration = 10 * time.Second
	sessionEmail = "loadtest@example.com"
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// route is a random walk around a start point, roughly one fix per second.
type route struct {
	mu      sync.Mutex
	lat     float64
	lng     float64
	battery float64
}

func (r *route) step(rng *rand.Rand) (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lat += (rng.Float64() - 0.5) * 0.0005
	r.lng += (rng.Float64() - 0.5) * 0.0005
	return r.lat, r.lng
}

func (r *route) drain() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.battery > 0.05 {
		r.battery -= 0.001
	}
	return r.battery
}

func main() {
	fmt.Println("=== EcoTracker Signal Replay ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	walk := &route{lat: 52.52, lng: 13.405, battery: 0.95}

	fmt.Println("\n--- Setup: session, battery reference, start ---")
	for _, r := range []result{
		post("/session", map[string]interface{}{"email": sessionEmail, "loggedIn": true}, http.StatusNoContent),
		post("/signals/battery", map[string]interface{}{"level": walk.battery}, http.StatusAccepted),
		post("/tracker/start", nil, http.StatusOK),
	} {
		fmt.Printf("  %-24s %d\n", r.endpoint, r.status)
		if r.err {
			fmt.Println("FAILED: setup request rejected")
			return
		}
	}

	fmt.Println("\n--- Phase 1: Signal burst (fixes + battery) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.9 {
			return doFix(rng, walk)
		}
		return doBattery(walk)
	})

	fmt.Println("\n--- Phase 2: Dashboard reads under signal load (30% signals, 70% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doFix(rng, walk)
		case r < 0.30:
			return doBattery(walk)
		case r < 0.60:
			return get("/tracker")
		case r < 0.75:
			return get("/history/weekly")
		case r < 0.90:
			return get("/history/hourly")
		default:
			return get("/missions")
		}
	})

	fmt.Println("\n--- Teardown ---")
	r := post("/tracker/stop", nil, http.StatusOK)
	fmt.Printf("  %-24s %d\n", r.endpoint, r.status)
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doFix(rng *rand.Rand, walk *route) result {
	lat, lng := walk.step(rng)
	return post("/signals/position", map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
		"speed":     rng.Float64() * 3,
		"timestamp": time.Now().UnixMilli(),
	}, http.StatusAccepted)
}

func doBattery(walk *route) result {
	return post("/signals/battery", map[string]interface{}{"level": walk.drain()}, http.StatusAccepted)
}

func post(path string, body interface{}, want int) result {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", reader)
	lat := time.Since(start)
	if err != nil {
		return result{"POST " + path, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST " + path, resp.StatusCode, lat, resp.StatusCode != want}
}

func get(path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET " + path, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET " + path, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
