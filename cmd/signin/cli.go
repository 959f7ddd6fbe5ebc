package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"comic-service/internal/account/apiclient"
	"comic-service/internal/config"
	"comic-service/internal/credstore"
	"comic-service/internal/logger"
	"comic-service/internal/redis"
	"comic-service/internal/signin"
)

// cli wires the sign-in client for one command run.
type cli struct {
	cfg        config.ClientConfig
	client     *apiclient.Client
	creds      signin.CredentialStore
	reconciler *signin.Reconciler

	closers []io.Closer
	stopLog func()
}

func newCLI(ctx context.Context, cfg config.ClientConfig) (*cli, error) {
	c := &cli{cfg: cfg}

	creds, err := c.openCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c.creds = creds

	c.client = apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout})
	c.reconciler = signin.NewReconciler(
		c.client,
		creds,
		signin.NewHolder(),
		signin.WithPasswordPrefix(cfg.BridgePasswordPrefix),
	)
	c.stopLog = logStates(c.reconciler.State())

	return c, nil
}

func (c *cli) openCredentials(ctx context.Context) (signin.CredentialStore, error) {
	switch c.cfg.CredentialBackend {
	case "memory":
		return credstore.NewMemoryStore(), nil
	case "redis":
		client, err := redis.New(ctx, c.cfg.RedisAddr, c.cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.closers = append(c.closers, client)

		host, err := os.Hostname()
		if err != nil {
			host = "default"
		}
		return credstore.NewRedisStore(client.Client, host), nil
	default:
		store, err := credstore.OpenBolt(c.cfg.CredentialPath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store)
		return store, nil
	}
}

// logStates logs every snapshot the holder publishes until stopped.
func logStates(h *signin.Holder) func() {
	ch, cancel := h.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for st := range ch {
			logger.Debug("session state", map[string]any{
				"state": st.String(),
				"error": st.Err,
			})
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (c *cli) Close() error {
	if c.stopLog != nil {
		c.stopLog()
	}
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// report prints the final state and turns a failed sign-in into an error.
func report(w io.Writer, st signin.State) error {
	switch {
	case st.Authenticated:
		fmt.Fprintln(w, "signed in")
		return nil
	case st.Err != "":
		return errors.New(st.Err)
	default:
		return context.Canceled
	}
}
