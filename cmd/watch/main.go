// Command watch follows the live update stream for a single listing and
// prints each price change. Useful for eyeballing the feed before
// pointing the scanner at it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"auction-scanner/internal/nellis"
)

func main() {
	baseURL := flag.String("base-url", nellis.DefaultBaseURL, "Marketplace base URL")
	streamURL := flag.String("stream-url", nellis.DefaultStreamURL, "Live update stream base URL")
	productID := flag.Int64("product-id", 0, "Listing ID to watch")

	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags)

	if *productID == 0 {
		logger.Fatal("--product-id is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, stopping", sig)
		cancel()
	}()

	client := nellis.NewClient(*baseURL, nellis.WithStreamURL(*streamURL), nellis.WithLogger(logger))

	logger.Printf("Watching listing %d", *productID)
	updates := client.StreamLiveUpdates(ctx, *productID)

	for update := range updates {
		logger.Printf("listing %d: price=%.2f bids=%d at %s",
			update.ProductID, update.CurrentPrice, update.BidCount, update.Timestamp.Format("15:04:05"))
	}

	logger.Println("Stream closed")
}
