/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/brightmark/postdash/pkg/config"
	"github.com/brightmark/postdash/pkg/crypto"
	dbclient "github.com/brightmark/postdash/pkg/database/client"
	"github.com/brightmark/postdash/pkg/handlers"
	commonklog "github.com/brightmark/postdash/pkg/klog"
	"github.com/brightmark/postdash/pkg/options"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	dbClient   *dbclient.Client
	ctx        context.Context
	cancel     context.CancelFunc
	isInited   bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &Server{
		opts:   &options.Options{},
		ctx:    ctx,
		cancel: cancel,
	}
	if err := s.init(); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// init performs the initial setup of the server including flag parsing,
// logging initialization, configuration loading, and database client setup.
// It also marks the server as initialized.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = s.initLogs(); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	if commonconfig.IsCryptoEnable() {
		if crypto.NewCrypto() == nil {
			return fmt.Errorf("failed to init crypto")
		}
	}
	if s.dbClient = dbclient.NewClient(); s.dbClient == nil {
		return fmt.Errorf("failed to init db client")
	}
	s.isInited = true
	return nil
}

// Start begins the server operation by starting the HTTP server.
// It waits for a signal to stop and then calls Stop to shut down services.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init api-server first")
		return
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	klog.Infof("starting api-server")
	go func() {
		if err := s.startHttpServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(-1)
		}
	}()

	<-s.ctx.Done()
	s.Stop()
}

// Stop gracefully shuts down the HTTP server and closes the database client.
// It flushes logs before returning.
func (s *Server) Stop() {
	defer s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown httpserver")
		}
	}
	if s.dbClient != nil {
		s.dbClient.Close()
	}
	klog.Info("apiserver is stopped")
	klog.Flush()
}

// initLogs initializes the logging system with the specified log file path and size.
func (s *Server) initLogs() error {
	return commonklog.Init(s.opts.LogfilePath, s.opts.LogFileSize)
}

// initConfig loads the server configuration from the specified config file path.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// startHttpServer initializes and starts the HTTP server.
// It sets up the HTTP handlers, configures the server address based on the configured port,
// and starts listening for HTTP requests.
func (s *Server) startHttpServer() error {
	if commonconfig.GetServerPort() <= 0 {
		return fmt.Errorf("the apiserver port is not defined")
	}
	handler, err := handlers.InitHttpHandlers(s.ctx, s.dbClient)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", commonconfig.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	klog.Infof("http-server listen port: %d", commonconfig.GetServerPort())
	if err = s.httpServer.ListenAndServe(); err != nil {
		return err
	}
	return nil
}
