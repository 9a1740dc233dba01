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
		log.Fatalf("Failed to run ops board: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadSurface()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := storeclient.New(cfg.StoreAddress, logger)
	effector := console.NewEffector(os.Stdout, logger)

	// The order board and the alert banner poll independently, each with
	// its own view and cadence. Only the banner surface owns the operator
	// alert effects; the board just renders its view, so a level rise
	// rings the bell once, not once per surface.
	board := engine.NewSurface(engine.Config{
		Name:     "order-board",
		Interval: cfg.PollInterval,
		PatchTTL: cfg.PatchTTL,
		Fetch:    engine.FetchOrdersWithCustomers(client, engine.AllOrders),
		Store:    client,
		Logger:   logger,
	})
	banner := engine.NewSurface(engine.Config{
		Name:     "alert-banner",
		Interval: cfg.BannerInterval,
		PatchTTL: cfg.PatchTTL,
		Fetch:    engine.FetchOrders(client, engine.AllOrders),
		Store:    client,
		Effector: engine.OperatorEffects{Effector: effector},
		Logger:   logger,
	})

	board.OnViewChanged(func(snap engine.Snapshot) {
		printBoard(os.Stdout, snap)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	board.Start(ctx)
	banner.Start(ctx)
	defer banner.Stop()
	defer board.Stop()

	fmt.Println("Ella's Cupcakery ops board. Commands: orders | status <id> <status> | paid <id> | quit")

	commandLoop(ctx, board)
	return nil
}

// commandLoop reads operator commands from stdin until quit or shutdown
func commandLoop(ctx context.Context, board *engine.Surface) {
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
			if quit := handleCommand(ctx, board, line); quit {
				return
			}
		}
	}
}

func handleCommand(ctx context.Context, board *engine.Surface, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true

	case "orders":
		printBoard(os.Stdout, board.View())

	case "status":
		if len(fields) < 3 {
			fmt.Println("usage: status <order-id> <status>")
			return false
		}
		status := domain.OrderStatus(strings.Join(fields[2:], " "))
		if !status.Valid() {
			fmt.Printf("unknown status %q\n", status)
			return false
		}
		patch := domain.OrderPatch{Status: domain.StatusPtr(status)}
		if err := board.IssueCommand(ctx, fields[1], patch); err != nil {
			fmt.Printf("update failed: %v\n", err)
		}

	case "paid":
		if len(fields) != 2 {
			fmt.Println("usage: paid <order-id>")
			return false
		}
		patch := domain.OrderPatch{PaymentStatus: domain.PaymentPtr(domain.PaymentPaid)}
		if err := board.IssueCommand(ctx, fields[1], patch); err != nil {
			fmt.Printf("update failed: %v\n", err)
		}

	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
	return false
}

// printBoard renders the order table sorted by id
func printBoard(out *os.File, snap engine.Snapshot) {
	ids := make([]string, 0, len(snap.Orders))
	for id := range snap.Orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "\n%-12s %-18s %-22s %-10s %s\n", "ORDER", "STATUS", "PAYMENT", "TOTAL", "CUSTOMER")
	for _, id := range ids {
		o := snap.Orders[id]
		name := o.CustomerID
		if c, ok := snap.Customers[o.CustomerID]; ok {
			name = c.Name
		}
		fmt.Fprintf(out, "%-12s %-18s %-22s %-10.2f %s\n", o.ID, o.Status, o.PaymentStatus, o.Total, name)
	}
}

func initLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
