package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Portfolio site with scroll-revealed sections",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "check-content [path]",
		Short: "Validate a portfolio content file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			p, err := content.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d projects, %d skills, %d contact entries\n",
				len(p.Projects), len(p.Skills), len(p.Contact))
			return nil
		},
	})
	return root
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabasePath, randomSalt())
	if err != nil {
		return err
	}
	defer db.Close()

	// Clean up old visitor data for privacy compliance
	if n, err := db.PruneVisitors(ctx, time.Now().Add(-cfg.VisitorRetention)); err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
	} else if n > 0 {
		log.Printf("Privacy cleanup: Removed %d old visitor records", n)
	}

	pages := page.NewStore(
		page.WithTTL(cfg.PageTTL),
		page.WithRevealHook(func(visitor, section string) {
			if err := db.RecordReveal(context.Background(), visitor, section, time.Now()); err != nil {
				log.Printf("Error recording reveal of %s: %v", section, err)
			}
		}),
	)
	defer pages.Close()

	sim := contact.NewSimulator(db)
	sim.Delay = cfg.SubmitDelay
	sim.ResetAfter = cfg.FormResetAfter

	srv, err := web.New(cfg, portfolio, pages, db, sim)
	if err != nil {
		return err
	}
	router, err := srv.Router()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// randomSalt keys IP hashing for this process only, so hashes cannot be
// correlated across restarts.
func randomSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	return hex.EncodeToString(b)
}
