/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/datagrid/config"
	"github.com/google/datagrid/core/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr  string
	watch bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid as HTML",
		Long: `Serves the grid over HTTP. The URL holds the view state: sort, filters,
column widths and the row window, so every view can be bookmarked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, opts, nil)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "Address to listen on")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the source file when it changes")
	return cmd
}

// runServe serves until ctx is done. ready, when set, receives the bound
// address once the listener is open.
func runServe(ctx context.Context, root *rootOptions, opts *serveOptions, ready func(net.Addr)) error {
	s, err := root.openSession(ctx, false, nil)
	if err != nil {
		return err
	}
	g, err := s.newGrid(nil)
	if err != nil {
		return err
	}
	defer g.Close()

	srv, err := server.NewServer(g, server.Options[config.Summary]{
		Title:           s.built.Title,
		FormatAggregate: s.built.FormatAggregate,
		Logger:          s.logger,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", srv)
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}
	s.logger.Info("serving grid", zap.String("url", "http://"+lis.Addr().String()+"/"))
	if ready != nil {
		ready(lis.Addr())
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := httpServer.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if opts.watch {
		eg.Go(func() error {
			return s.watch(egCtx, g)
		})
	}
	return eg.Wait()
}
