package market

// CalculateImbalance calculates the imbalance between bid and ask volumes
// Imbalance = (BidVol - AskVol) / (BidVol + AskVol), 0 when both are zero.
func CalculateImbalance(bidVolume float64, askVolume float64) float64 {
	totalVolume := bidVolume + askVolume
	if totalVolume == 0 {
		return 0
	}
	return (bidVolume - askVolume) / totalVolume
}

// CalculateImbalanceFromOrderBook calculates imbalance using the top levels of the book.
// levels <= 0 means every level.
func CalculateImbalanceFromOrderBook(book *OrderBook, levels int) float64 {
	if book == nil {
		return 0
	}
	if levels <= 0 {
		return book.Imbalance()
	}

	bidVolume := 0
	for i, price := range book.BidPrices() {
		if i >= levels {
			break
		}
		bidVolume += abs(book.Buy[price])
	}

	askVolume := 0
	for i, price := range book.AskPrices() {
		if i >= levels {
			break
		}
		askVolume += abs(book.Sell[price])
	}

	return CalculateImbalance(float64(bidVolume), float64(askVolume))
}
