package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/auth"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/lookup"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/session"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/subscription"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/summary"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger  *logrus.Logger
	Config  config.ServerConfig
	Service *service.Service
	Tokens  *auth.TokenService
	Storage *storage.Storage
}

// Handler builds the router: /status outside huma and every v1 operation
// behind logging and bearer auth.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Budget Ledger API", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))
	api.UseMiddleware(auth.Middleware(api, r.Tokens))

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)

	subscription.NewCreateSubscriptionHandler(r.Service.Subscription).Register(api)
	subscription.NewListSubscriptionsHandler(r.Service.Subscription).Register(api)
	subscription.NewGetSubscriptionHandler(r.Service.Subscription).Register(api)
	subscription.NewUpdateSubscriptionHandler(r.Service.Subscription).Register(api)
	subscription.NewDeleteSubscriptionHandler(r.Service.Subscription).Register(api)

	lookup.NewHandler(r.Service.Lookup).Register(api)
	summary.NewHandler(r.Service.Summary).Register(api)
	session.NewHandler(r.Service.Session).Register(api)

	return mux
}

// Serve listens until ctx is cancelled, then shuts the server down gracefully.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Config.Port,
		Handler:           r.Handler(),
		ReadTimeout:       r.Config.ReadTimeout,
		WriteTimeout:      r.Config.WriteTimeout,
		IdleTimeout:       r.Config.IdleTimeout,
		ReadHeaderTimeout: r.Config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Config.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
