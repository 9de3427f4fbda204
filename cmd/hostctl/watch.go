package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/hostkit/host/adaptor"
	"github.com/joshuapare/hostkit/host/bufpool"
	"github.com/joshuapare/hostkit/host/guard"
	"github.com/joshuapare/hostkit/internal/buf"
	"github.com/joshuapare/hostkit/internal/logger"
)

var (
	watchInterval time.Duration
	watchCycles   int
)

func init() {
	cmd := newWatchCmd()
	cmd.Flags().DurationVar(&watchInterval, "interval", 0, "Time between refresh cycles (default from config, 10s)")
	cmd.Flags().IntVar(&watchCycles, "cycles", 0, "Stop after this many cycles (0 runs until interrupted)")
	rootCmd.AddCommand(cmd)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh the adaptor inventory periodically",
		Long: `The watch command re-enumerates interfaces on a fixed interval and
logs adaptors that are added, changed or removed. Each adaptor carries a
sighting counter that survives every cycle in which it persists. Pool and
adaptor statistics are printed on exit.

Example:
  hostctl watch
  hostctl watch --interval 2s --cycles 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), stopSignals...)
			defer stop()
			return runWatch(ctx)
		},
	}
}

// sightings reads the counter kept in an adaptor's user data.
func sightings(ad *adaptor.Adaptor) uint64 {
	b, ok := ad.UserData.(*bufpool.Buffer)
	if !ok {
		return 0
	}
	return buf.U64LE(b.Bytes())
}

// countSighting bumps the counter kept in an adaptor's user data. Registries
// configured with less than eight bytes of user data keep no counter.
func countSighting(ad *adaptor.Adaptor) {
	if b, ok := ad.UserData.(*bufpool.Buffer); ok {
		buf.PutU64LE(b.Bytes(), buf.U64LE(b.Bytes())+1)
	}
}

// watcher owns one registry and its pool. mu serializes whole cycles
// against readers such as the final report.
type watcher struct {
	mu   sync.Mutex
	reg  *adaptor.Registry
	pool *bufpool.Pool
	enum adaptor.Enumerator
}

// cycle runs one refresh and counts a sighting for every surviving adaptor.
func (w *watcher) cycle(n int) error {
	var (
		res adaptor.RefreshResult
		err error
		rec bufpool.ReclaimStats
	)
	guard.Do(&w.mu, func() {
		res, err = w.reg.Refresh(w.enum)
		if errors.Is(err, adaptor.ErrEnumerate) {
			return
		}
		for ad := range w.reg.All() {
			countSighting(ad)
		}
		rec = w.pool.Reclaim()
	})
	if errors.Is(err, adaptor.ErrEnumerate) {
		logger.Error("refresh failed", "cycle", n, "err", err)
		return err
	}
	if err != nil {
		logger.Warn("skipped invalid sightings", "cycle", n, "err", err)
	}

	for _, ad := range res.Added {
		logger.Info("adaptor added", "name", ad.Name, "ifindex", ad.IfIndex, "mac", ad.HardwareAddr.String())
	}
	for _, ad := range res.Changed {
		logger.Info("adaptor changed", "name", ad.Name, "ifindex", ad.IfIndex, "mac", ad.HardwareAddr.String())
	}
	for _, ad := range res.Removed {
		logger.Info("adaptor removed", "name", ad.Name, "ifindex", ad.IfIndex)
	}
	if rec.Buffers > 0 {
		logger.Debug("pool reclaimed", "buffers", rec.Buffers, "bytes", humanize.IBytes(uint64(rec.Bytes)))
	}
	logger.Debug("cycle complete", "cycle", n, "adaptors", w.reg.Len())
	return nil
}

func runWatch(ctx context.Context) error {
	interval := watchInterval
	if interval <= 0 {
		interval = cfg.Interval
	}
	reg, pool := newRegistry()
	w := &watcher{reg: reg, pool: pool, enum: newEnumerator()}

	printVerbose("Watching every %s\n", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		failures int
		n        int
	)
loop:
	for {
		n++
		if err := w.cycle(n); err != nil {
			failures++
		}
		if watchCycles > 0 && n >= watchCycles {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	if err := w.report(n, failures); err != nil {
		return err
	}
	if failures == n {
		return errors.New("every refresh cycle failed")
	}
	return nil
}

// watchReport is the JSON form of the exit report.
type watchReport struct {
	Cycles   int           `json:"cycles"`
	Failures int           `json:"failures"`
	Adaptors []adaptorView `json:"adaptors"`
	Pool     poolView      `json:"pool"`
}

// poolView is the printed form of bufpool.Stats.
type poolView struct {
	AllocCalls  int64  `json:"alloc_calls"`
	FreeCalls   int64  `json:"free_calls"`
	Acquires    int64  `json:"acquires"`
	Reuses      int64  `json:"reuses"`
	Releases    int64  `json:"releases"`
	Sweeps      uint64 `json:"sweeps"`
	InUse       int    `json:"in_use"`
	Cached      int    `json:"cached"`
	CachedBytes int64  `json:"cached_bytes"`
	Classes     int    `json:"classes"`
}

func poolViewOf(st bufpool.Stats) poolView {
	return poolView{
		AllocCalls:  st.AllocCalls,
		FreeCalls:   st.FreeCalls,
		Acquires:    st.Acquires,
		Reuses:      st.Reuses,
		Releases:    st.Releases,
		Sweeps:      st.Sweeps,
		InUse:       st.InUse,
		Cached:      st.Cached,
		CachedBytes: st.CachedBytes,
		Classes:     st.Classes,
	}
}

func (w *watcher) report(cycles, failures int) error {
	var (
		views []adaptorView
		st    bufpool.Stats
	)
	guard.Do(&w.mu, func() {
		views = sortedViews(w.reg)
		st = w.pool.Stats()
	})
	if views == nil {
		views = []adaptorView{}
	}

	if jsonOut {
		return printJSON(watchReport{Cycles: cycles, Failures: failures, Adaptors: views, Pool: poolViewOf(st)})
	}

	p := message.NewPrinter(language.English)
	printTable(views, true)
	printInfo("\n%s", p.Sprintf("Cycles: %d (%d failed)\n", cycles, failures))
	printInfo("%s", p.Sprintf("Pool: %d allocs, %d frees, %d acquires (%d reused), %d releases\n",
		st.AllocCalls, st.FreeCalls, st.Acquires, st.Reuses, st.Releases))
	printInfo("%s", p.Sprintf("Buffers: %d in use, %d cached (%s) across %d classes\n",
		st.InUse, st.Cached, humanize.IBytes(uint64(st.CachedBytes)), st.Classes))
	return nil
}

