package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"tick-trader/config"
	"tick-trader/inventory"
	"tick-trader/market"
	"tick-trader/trader"
)

// 一个极简的本地模拟：随机生成盘口与观测，驱动 Trader，并假设所有报价全部成交。
// 仅用于演示，不连接真实撮合端。
func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空使用内置默认值")
	ticks := flag.Int("ticks", 20, "number of random ticks to simulate")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	telemetryPath := flag.String("telemetry", "", "write telemetry records to this file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Printf("load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	out := io.Discard
	if *telemetryPath != "" {
		f, err := os.Create(*telemetryPath)
		if err != nil {
			fmt.Printf("open telemetry file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	tr, err := trader.FromConfig(cfg, out)
	if err != nil {
		fmt.Printf("build trader: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	mkt := newMarket(rng, cfg.Limits)
	fills := inventory.NewTracker()

	traderData := ""
	total := 0
	for i := 0; i < *ticks; i++ {
		snap := mkt.next(int64(i)*100, fills.Positions(), traderData)
		res, err := tr.Run(snap)
		if err != nil {
			fmt.Printf("tick %d err=%v\n", i, err)
		}
		for _, sym := range market.SortedKeys(res.Orders) {
			for _, q := range res.Orders[sym] {
				fills.Fill(q)
			}
		}
		traderData = res.TraderData
		total += res.Quotes()
		fmt.Printf("tick %d quotes=%d\n", i, res.Quotes())
	}

	fmt.Printf("total quotes: %d\n", total)
	for _, sym := range market.SortedKeys(mkt.mids) {
		net, pnl := fills.Valuation(sym, mkt.mids[sym])
		fmt.Printf("%-13s net=%4d avg=%10.2f mid=%10.2f pnl=%10.2f\n", sym, net, fills.AvgCost(sym), mkt.mids[sym], pnl)
	}
}

var basePrices = map[string]float64{
	"AMETHYSTS":    10000,
	"STARFRUIT":    5000,
	"ORCHIDS":      1100,
	"CHOCOLATE":    8000,
	"STRAWBERRIES": 4000,
	"ROSES":        15000,
	"GIFT_BASKET":  71375,
}

type simMarket struct {
	rng      *rand.Rand
	mids     map[string]float64
	sunlight float64
	humidity float64
}

func newMarket(rng *rand.Rand, limits map[string]int) *simMarket {
	m := &simMarket{rng: rng, mids: make(map[string]float64), sunlight: 2500, humidity: 70}
	for sym := range limits {
		base, ok := basePrices[sym]
		if !ok {
			base = 1000
		}
		m.mids[sym] = base
	}
	return m
}

// next 生成下一 tick 的快照：中间价高斯扰动，每侧三档，卖单数量按负数编码。
func (m *simMarket) next(ts int64, positions map[string]int, traderData string) *market.Snapshot {
	books := make(map[string]*market.OrderBook, len(m.mids))
	for sym, mid := range m.mids {
		mid += m.rng.NormFloat64() * math.Max(1, mid*0.0005)
		m.mids[sym] = mid
		buy, sell := make(map[int]int), make(map[int]int)
		center := int(math.Round(mid))
		for lvl := 1; lvl <= 3; lvl++ {
			buy[center-lvl] = 1 + m.rng.Intn(30)
			sell[center+lvl] = -(1 + m.rng.Intn(30))
		}
		books[sym] = market.NewOrderBook(buy, sell)
	}
	m.sunlight = math.Max(0, m.sunlight+m.rng.NormFloat64()*50)
	m.humidity = math.Min(100, math.Max(0, m.humidity+m.rng.NormFloat64()*2))

	return &market.Snapshot{
		Timestamp:  ts,
		TraderData: traderData,
		OrderBooks: books,
		Positions:  positions,
		Observations: market.Observation{
			Conversion: map[string]market.ConversionObservation{
				"ORCHIDS": {
					BidPrice: m.mids["ORCHIDS"] - 1,
					AskPrice: m.mids["ORCHIDS"] + 1,
					Sunlight: m.sunlight,
					Humidity: m.humidity,
				},
			},
		},
	}
}
