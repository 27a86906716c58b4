package export

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

// Preview server port range. The default port steps forward when taken so
// two viewfinder sessions can preview side by side.
const (
	PreviewPortStart = 9400
	PreviewPortEnd   = 9500
)

// PreviewServer serves an export directory locally so the SVG diagram and
// PNG chart can be checked in a browser.
type PreviewServer struct {
	dir    string
	port   int
	server *http.Server
}

// NewPreviewServer creates a preview server for the given export directory.
func NewPreviewServer(dir string, port int) *PreviewServer {
	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(dir))))

	return &PreviewServer{
		dir:  dir,
		port: port,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

// URL returns the server's local URL.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// Run serves until interrupted, opening the browser shortly after start.
func (p *PreviewServer) Run() error {
	if _, err := os.Stat(p.dir); os.IsNotExist(err) {
		return fmt.Errorf("export directory does not exist: %s", p.dir)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		time.Sleep(300 * time.Millisecond)
		if err := openInBrowser(p.URL()); err != nil {
			fmt.Printf("Could not open browser: %v\nOpen %s yourself\n", err, p.URL())
		}
	}()

	fmt.Printf("Preview at %s (serving %s)\nPress Ctrl+C to stop\n", p.URL(), p.dir)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// StartPreview serves dir on the first free port in the preview range.
func StartPreview(dir string) error {
	port, err := findAvailablePort(PreviewPortStart, PreviewPortEnd)
	if err != nil {
		return err
	}
	return NewPreviewServer(dir, port).Run()
}

// noCacheMiddleware keeps the browser from caching charts between exports.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func findAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

func openInBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
