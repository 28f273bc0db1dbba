package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id int) *orderbook.Order {
	side := orderbook.BUY
	if rand.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	qty := float64(rand.Intn(maxQty-minQty+1) + minQty)

	return &orderbook.Order{
		ID:     fmt.Sprintf("ORD-%06d", id),
		Symbol: "ABC",
		Side:   side,
		Price:  float64(int(price*100)) / 100,
		Qty:    qty,
		Type:   orderbook.LIMIT,
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())

	obm := orderbook.NewOrderBookManager(&orderbook.OrderBookManagerConfig{})
	totalMatched := 0
	totalQty := 0.0
	obm.RegisterTradeCallback(func(trades []*orderbook.Trade) {
		for _, tr := range trades {
			totalMatched++
			totalQty += tr.Qty
			if totalMatched <= 5 {
				log.Printf("match: %s <=> %s @ %.2f qty %.0f\n",
					tr.TakerOrderID, tr.MakerOrderID, tr.Price, tr.Qty)
			}
		}
	})

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		obm.SubmitOrder(randomOrder(i + 1)) // nolint
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders     : %d\n", numOrders)
	fmt.Printf("total matches    : %d\n", totalMatched)
	fmt.Printf("total matched qty: %.0f\n", totalQty)
	fmt.Printf("time taken       : %s\n", elapsed)
}
