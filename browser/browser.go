// Package browser wraps a headless Chrome instance acquired per session,
// matching original_source/session_manager.py's create_session: a driver
// launched on a randomly chosen high port and quit on session close.
//
// Grounded on hieuntg81-alfred-ai's internal/adapter/tool/browser_chromedp.go
// ChromeDPBackend for the allocator/context wiring.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jeeva2334/asklly-agents-v1/config"
)

const (
	minPort = 10000
	maxPort = 65535
)

// RandomDebuggingPort picks a high port in [10000, 65535) for the
// Chrome remote-debugging listener, matching the source's acquisition
// scheme so many sessions can run concurrent browser instances.
func RandomDebuggingPort() int {
	return minPort + rand.Intn(maxPort-minPort)
}

// Browser is a per-session headless Chrome handle.
type Browser struct {
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	timeout     time.Duration
	port        int
}

// Options configures browser acquisition.
type Options struct {
	Headless bool
	Stealth  bool
	Timeout  time.Duration
}

// Acquire launches a new headless Chrome instance on a random high port.
// Docker detection forces headless regardless of Options.Headless, per
// spec section 6.
func Acquire(opts Options) (*Browser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	headless := opts.Headless || config.IsRunningInDocker()
	port := RandomDebuggingPort()

	execOpts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
	copy(execOpts, chromedp.DefaultExecAllocatorOptions[:])
	execOpts = append(execOpts,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("remote-debugging-port", fmt.Sprintf("%d", port)),
		chromedp.WindowSize(1280, 720),
	)
	if opts.Stealth {
		// Reduce the most common headless-automation fingerprints.
		execOpts = append(execOpts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(tabCtx) }()
	select {
	case err := <-done:
		if err != nil {
			tabCancel()
			allocCancel()
			return nil, fmt.Errorf("browser: failed to start on port %d: %w", port, err)
		}
	case <-time.After(opts.Timeout):
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("browser: startup timed out after %s", opts.Timeout)
	}

	return &Browser{
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      tabCancel,
		timeout:     opts.Timeout,
		port:        port,
	}, nil
}

// Port returns the remote-debugging port this instance was acquired on.
func (b *Browser) Port() int { return b.port }

// FetchText navigates to url and returns the page's visible text, run
// through chromedp off the event loop; callers pass a context carrying
// their own deadline for the navigation itself.
func (b *Browser) FetchText(ctx context.Context, url string) (string, error) {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser: fetch %s failed: %w", url, err)
	}
	return text, nil
}

// Quit tears down the Chrome instance. Safe to call once; subsequent
// calls are no-ops, matching Interaction.close()'s idempotence.
func (b *Browser) Quit() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
}
