// Quick diagnostic: validate a trader address and probe the Hyperliquid info
// endpoint for its fill history and clearinghouse state before pointing the
// analysis service at it.
//
// Usage: go run ./scripts/check_trader_addr.go 0x...
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"traderep-api/pkg/hyperliquid"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: check_trader_addr <address>")
		os.Exit(1)
	}
	addr := strings.ToLower(strings.TrimSpace(os.Args[1]))
	if !common.IsHexAddress(addr) {
		fmt.Printf("invalid address: %s\n", addr)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := hyperliquid.NewClient()

	fmt.Printf("Checking %s\n\n", addr)

	fills, err := client.UserFills(ctx, addr)
	if err != nil {
		fmt.Printf("userFills: error: %v\n", err)
	} else {
		fmt.Printf("userFills: %d fills\n", len(fills))
		if len(fills) > 0 {
			last := fills[len(fills)-1]
			fmt.Printf("  most recent: %s %s px=%s sz=%s at %s\n",
				last.Coin, last.Side, last.Px, last.Sz, time.UnixMilli(last.Time).UTC().Format(time.RFC3339))
		}
	}

	orders, err := client.HistoricalOrders(ctx, addr)
	if err != nil {
		fmt.Printf("historicalOrders: error: %v\n", err)
	} else {
		fmt.Printf("historicalOrders: %d records\n", len(orders))
	}

	state, err := client.UserState(ctx, addr)
	if err != nil {
		fmt.Printf("clearinghouseState: error: %v\n", err)
		return
	}
	fmt.Printf("clearinghouseState: %d open positions\n", len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		fmt.Printf("  %s szi=%s entry=%s leverage=%.0fx (%s)\n",
			ap.Position.Coin, ap.Position.Szi, ap.Position.EntryPx,
			ap.Position.Leverage.Value, ap.Position.Leverage.Type)
	}
}
