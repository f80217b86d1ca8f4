// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Command oscar-serve exposes a read-only HTTP query surface over an
// oscar engine, grounded on pkg/serve/httpserver's listen-and-serve
// shape. It is explicitly outside the core library's contract: a
// convenience for browsing a store without a shell.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ssc-oscar/oscar-go/modules/oscar"
	"github.com/ssc-oscar/oscar-go/modules/store"
	"github.com/ssc-oscar/oscar-go/pkg/config"
	"github.com/ssc-oscar/oscar-go/pkg/httpserver"
)

func main() {
	configPath := flag.String("config", "oscar.toml", "Path to the store's configuration file")
	addr := flag.String("addr", ":8086", "Address to listen on")
	flag.Parse()

	log := logrus.StandardLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("oscar-serve: %v", err)
	}

	var opts []store.Option
	opts = append(opts, store.WithRegistry(cfg.Registry()))
	if cfg.LegacyCommitBlobs {
		opts = append(opts, store.WithLegacyCommitBlobs(true))
	}
	if cfg.ContentCacheMaxCost > 0 {
		opts = append(opts, store.WithContentCache(cfg.ContentCacheMaxCost))
	}
	s := store.New(cfg.DataRoot, cfg.FastRoot, opts...)
	defer s.Close()

	e := oscar.New(s)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpserver.New(e, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("oscar-serve: listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("oscar-serve: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("oscar-serve: shutdown: %v", err)
	}
}
