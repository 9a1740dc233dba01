package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/config"
	"github.com/ellas-cupcakery/storefront/internal/console"
	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/engine"
	"github.com/ellas-cupcakery/storefront/internal/storeclient"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run order tracker: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadSurface()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CustomerID == "" {
		return fmt.Errorf("customer id is required (use -c flag or CUSTOMER_ID env)")
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := storeclient.New(cfg.StoreAddress, logger)
	prefs := console.LoadPrefs("ellas-trackorder", logger)
	effector := console.NewEffector(os.Stdout, logger)

	// The widget only watches this customer's in-flight orders. It renders
	// the customer-facing effects; the operator alert bell stays on the
	// ops board.
	widget := engine.NewSurface(engine.Config{
		Name:     "status-widget",
		Interval: cfg.PollInterval,
		PatchTTL: cfg.PatchTTL,
		Fetch:    engine.FetchOrders(client, engine.ActiveOrdersFor(cfg.CustomerID)),
		Store:    client,
		Effector: engine.CustomerEffects{Effector: effector},
		Prefs:    prefs,
		Logger:   logger,
	})

	widget.OnViewChanged(func(snap engine.Snapshot) {
		printOrders(snap)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	widget.Start(ctx)
	defer widget.Stop()

	fmt.Printf("Tracking orders for %s. Commands: orders | pay <id> | received <id> | celebrate on|off | quit\n", cfg.CustomerID)

	commandLoop(ctx, widget, prefs)
	return nil
}

func commandLoop(ctx context.Context, widget *engine.Surface, prefs *console.Prefs) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := handleCommand(ctx, widget, prefs, line); quit {
				return
			}
		}
	}
}

func handleCommand(ctx context.Context, widget *engine.Surface, prefs *console.Prefs, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true

	case "orders":
		printOrders(widget.View())

	case "pay":
		// "I Have Paid": the customer flags the transfer as sent; the
		// operator still has to confirm it.
		if len(fields) != 2 {
			fmt.Println("usage: pay <order-id>")
			return false
		}
		patch := domain.OrderPatch{PaymentStatus: domain.PaymentPtr(domain.PaymentClaimed)}
		if err := widget.IssueCommand(ctx, fields[1], patch); err != nil {
			fmt.Printf("update failed: %v\n", err)
		} else {
			fmt.Println("Thanks! We let the bakery know your payment is on its way.")
		}

	case "received":
		if len(fields) != 2 {
			fmt.Println("usage: received <order-id>")
			return false
		}
		patch := domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCompleted)}
		if err := widget.IssueCommand(ctx, fields[1], patch); err != nil {
			fmt.Printf("update failed: %v\n", err)
		} else {
			fmt.Println("Enjoy your cupcakes!")
		}

	case "celebrate":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			fmt.Println("usage: celebrate on|off")
			return false
		}
		prefs.SetCelebrationsEnabled(fields[1] == "on")
		fmt.Printf("celebrations %s\n", fields[1])

	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
	return false
}

func printOrders(snap engine.Snapshot) {
	if len(snap.Orders) == 0 {
		fmt.Println("\nNo active orders.")
		return
	}

	ids := make([]string, 0, len(snap.Orders))
	for id := range snap.Orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("\n%-12s %-18s %-22s %s\n", "ORDER", "STATUS", "PAYMENT", "TOTAL")
	for _, id := range ids {
		o := snap.Orders[id]
		fmt.Printf("%-12s %-18s %-22s %.2f\n", o.ID, o.Status, o.PaymentStatus, o.Total)
	}
}

func initLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
