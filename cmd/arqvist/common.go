package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arqvist/arqvist/internal/cache"
	"github.com/arqvist/arqvist/internal/md5cache"
	"github.com/arqvist/arqvist/internal/pathutil"
)

// resolveDir returns the absolute directory named by the first
// positional argument, or the working directory when none is given.
func resolveDir(args []string) (string, error) {
	dirn := "."
	if len(args) > 0 {
		dirn = args[0]
	}
	abs, err := filepath.Abs(dirn)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dirn, err)
	}
	return pathutil.Normalize(abs), nil
}

// locateCache walks upward from dirn to find a persisted cache and
// loads it. A missing cache is a user-facing fatal condition.
func locateCache(dirn string) (*cache.DirCache, error) {
	root, ok := cache.Locate(dirn, "")
	if !ok {
		return nil, fmt.Errorf("%s: no cache on disk", dirn)
	}
	d, err := cache.New(root, "")
	if err != nil {
		return nil, err
	}
	if _, err := d.Load(); err != nil {
		return nil, err
	}
	return d, nil
}

// attachChecksumStore opens the checksum memo store inside the cache
// directory and installs it. Failure to open is non-fatal: checksums
// are simply computed fresh.
func attachChecksumStore(d *cache.DirCache) *md5cache.Store {
	store, err := md5cache.Open(filepath.Join(d.CacheDir(), md5cache.StoreFileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: checksum store unavailable: %v\n", err)
		return nil
	}
	d.SetChecksumStore(store)
	return store
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, with a
// second signal forcing immediate exit.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()
	return ctx, cancel
}
