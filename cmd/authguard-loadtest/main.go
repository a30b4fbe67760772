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

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/0ui-labs/authguard"
	"github.com/0ui-labs/authguard/password"
)

type userStore struct {
	mu    sync.RWMutex
	users map[string]authguard.UserRecord
}

func (s *userStore) GetUserByEmail(_ context.Context, email string) (authguard.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return authguard.UserRecord{}, authguard.ErrUserNotFound
	}
	return u, nil
}

func main() {
	var (
		users       = flag.Int("users", 1000, "number of user accounts to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "operations per phase (login, validate, logout)")
		rateLimit   = flag.Float64("rate", 0, "max operations per second across all workers; 0 disables pacing")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
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

	// Cheap argon2 parameters keep seeding and the login phase CPU-bound on
	// the store rather than on hashing.
	cfg := authguard.DefaultConfig()
	cfg.Password = authguard.PasswordConfig{
		Memory:           8 * 1024,
		Time:             1,
		Parallelism:      1,
		SaltLength:       16,
		KeyLength:        32,
		MaxPasswordBytes: password.DefaultMaxPasswordBytes,
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hasher init failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d users...\n", *users)
	startSeed := time.Now()
	store := &userStore{users: make(map[string]authguard.UserRecord, *users)}
	emails := make([]string, *users)
	for i := 0; i < *users; i++ {
		email := fmt.Sprintf("user-%d@load.test", i)
		hash, err := hasher.Hash(passwordFor(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash failed: %v\n", err)
			os.Exit(1)
		}
		emails[i] = email
		store.users[email] = authguard.UserRecord{
			UserID:       fmt.Sprintf("u-%d", i),
			Email:        email,
			PasswordHash: hash,
			Active:       true,
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	engine, err := authguard.New().
		WithRedis(client).
		WithConfig(cfg).
		WithUserProvider(store).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	var limiter *rate.Limiter
	if *rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(*rateLimit), *concurrency)
	}

	tokens := make([]string, *ops)

	loginStats := runPhase(ctx, "login", *ops, *concurrency, limiter, func(r *rand.Rand, i int) error {
		idx := r.Intn(len(emails))
		res, err := engine.Login(ctx, emails[idx], passwordFor(idx))
		if err != nil {
			return err
		}
		tokens[i] = res.AccessToken
		return nil
	})

	validateStats := runPhase(ctx, "validate", *ops, *concurrency, limiter, func(r *rand.Rand, i int) error {
		tok := tokens[r.Intn(len(tokens))]
		if tok == "" {
			return nil
		}
		_, err := engine.Validate(ctx, tok)
		return err
	})

	logoutStats := runPhase(ctx, "logout", *ops, *concurrency, limiter, func(_ *rand.Rand, i int) error {
		if tokens[i] == "" {
			return nil
		}
		return engine.Logout(ctx, tokens[i])
	})

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("validate", validateStats)
	printStats("logout", logoutStats)

	snap := engine.MetricsSnapshot()
	fmt.Println("---- counters ----")
	fmt.Printf("login_success=%d login_failure=%d rate_limited=%d logout=%d rejected_blacklist=%d rejected_version=%d\n",
		snap.Counters[authguard.MetricLoginSuccess],
		snap.Counters[authguard.MetricLoginFailure],
		snap.Counters[authguard.MetricLoginRateLimited],
		snap.Counters[authguard.MetricLogout],
		snap.Counters[authguard.MetricTokenRejectedBlacklist],
		snap.Counters[authguard.MetricTokenRejectedVersion],
	)
}

func runPhase(ctx context.Context, name string, ops, concurrency int, limiter *rate.Limiter, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	fmt.Printf("running %s phase (%d ops)...\n", name, ops)
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
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
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
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func passwordFor(i int) string {
	return fmt.Sprintf("load-pass-%d-secret", i)
}
