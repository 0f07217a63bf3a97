package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	appLog "streetartlist/internal/log"
)

// Share-card defaults (Open Graph image size).
const (
	DefaultWidth   = 1200
	DefaultHeight  = 630
	DefaultTimeout = 30 * time.Second

	// ReadySelector is rendered by the board page once all cards are in.
	ReadySelector = `[data-ready="true"]`
)

// Options defines one screenshot of the board page.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/board".
	URL string
	// OutputPath is where the PNG is written.
	OutputPath string

	// Username and Password are sent as HTTP Basic Auth when both are set.
	Username string
	Password string

	Width   int
	Height  int
	Timeout time.Duration
}

// withDefaults validates o and fills zero values.
func (o Options) withDefaults() (Options, error) {
	if o.URL == "" {
		return o, errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return o, errors.New("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}

// CaptureBoardPNG loads opts.URL in headless Chromium, waits for
// ReadySelector and writes a viewport screenshot to opts.OutputPath. The
// file is replaced atomically so /preview.png never serves a partial image.
func CaptureBoardPNG(parent context.Context, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	if err := chromedp.Run(ctx, opts.tasks(&png)); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := writeAtomic(opts.OutputPath, png); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	appLog.Info("share card captured", "output", opts.OutputPath, "bytes", len(png))
	return nil
}

// headers returns the extra request headers for the page load, or nil.
func (o Options) headers() network.Headers {
	if o.Username == "" || o.Password == "" {
		return nil
	}
	token := base64.StdEncoding.EncodeToString([]byte(o.Username + ":" + o.Password))
	return network.Headers{"Authorization": "Basic " + token}
}

func (o Options) tasks(png *[]byte) chromedp.Tasks {
	var tasks chromedp.Tasks
	if h := o.headers(); h != nil {
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	return append(tasks,
		chromedp.EmulateViewport(int64(o.Width), int64(o.Height)),
		chromedp.Navigate(o.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.CaptureScreenshot(png),
	)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
