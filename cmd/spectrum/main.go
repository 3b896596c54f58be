// SPDX-License-Identifier: MIT
package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spectrum"
	"spectrum/internal/log"
	"spectrum/transport"
)

const (
	demoBins      = 512
	framePeriod   = 33 * time.Millisecond // ~30 fps
	demoSweepTime = 8.0                   // seconds per full sweep
)

// main runs the demo spectrum server. The program flow has three
// phases:
//
// 1. Startup: parse arguments, load configuration, start the
// WebSocket binder and construct the renderer.
//
// 2. Run loop: feed synthetic magnitude frames at ~30 fps and issue
// the per-frame draw calls until a termination signal arrives.
//
// 3. Shutdown: stop the frame ticker and close the transport.
func main() {
	opts, err := ParseArgs()
	if err != nil {
		log.Errorf("startup: %v", err)
		os.Exit(1)
	}
	if opts.Config == nil {
		// Help or another terminating flag was handled by the CLI.
		return
	}

	binder := transport.NewWebSocketBinder(opts.Width, opts.Height)
	go func() {
		if err := binder.ListenAndServe(opts.Addr); err != nil {
			log.Errorf("transport: %v", err)
			os.Exit(1)
		}
	}()

	s, err := spectrum.New(binder, opts.Config)
	if err != nil {
		log.Errorf("startup: %v", err)
		os.Exit(1)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	magnitudes := make([]float64, demoBins)
	start := time.Now()
	log.Infof("demo: serving synthetic spectrum on %s", opts.Addr)

	for {
		select {
		case now := <-ticker.C:
			sweepFrame(magnitudes, now.Sub(start).Seconds())
			if err := s.SetFrequencies(magnitudes); err != nil {
				log.Errorf("frame: %v", err)
			}
			s.OnRenderFrame()
		case <-done:
			log.Infof("demo: shutting down")
			if err := binder.Close(); err != nil {
				log.Errorf("shutdown: %v", err)
			}
			return
		}
	}
}

// sweepFrame fills dst with a synthetic spectrum: a noise floor plus a
// Gaussian peak sweeping back and forth across the bins.
func sweepFrame(dst []float64, elapsed float64) {
	phase := elapsed / demoSweepTime * 2 * math.Pi
	peak := (math.Sin(phase) + 1) / 2 * float64(len(dst)-1)
	const sigma = 12.0
	for i := range dst {
		d := (float64(i) - peak) / sigma
		dst[i] = -90 + 65*math.Exp(-d*d/2) + 5*math.Sin(float64(i)*0.7+phase*3)
	}
}
