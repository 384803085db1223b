package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"krakenmate/internal/book"
	"krakenmate/internal/wire"
)

const orderBookLevels = 8

// symbolTabView renders a per-symbol tab: ticker header, order book and
// chart side by side, trades and orders below, following the layout of
// original_source/src/tui/tabs/trading_pair.rs.
func (m Model) symbolTabView(symbol string) string {
	header := m.tickerHeaderView(symbol)

	left := m.orderBookView(symbol)
	right := m.candleSummaryView(symbol)
	mid := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	trades := m.tradesView(symbol)
	orders := m.ordersPanelView(symbol)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, trades, orders)

	return lipglossJoin(header, mid, bottom)
}

func (m Model) tickerHeaderView(symbol string) string {
	if m.agg == nil {
		return statusBarStyle.Render(" " + symbol + " -- ")
	}
	t, ok := m.agg.Ticker(symbol)
	if !ok {
		return statusBarStyle.Render(" " + symbol + " -- ")
	}
	arrow := "▲"
	color := colorGreen
	if t.Change.IsNegative() {
		arrow = "▼"
		color = colorRed
	}
	line := fmt.Sprintf(" %s %s %s  Bid: %s  Ask: %s  %s%%",
		symbol, arrow, t.Last.StringFixed(2), t.Bid.StringFixed(2), t.Ask.StringFixed(2), t.ChangePct.StringFixed(2))
	return statusBarStyle.Foreground(color).Render(line)
}

func (m Model) orderBookView(symbol string) string {
	focused := m.focus == focusOrderBook
	title := " Order Book "
	var st *book.State
	if m.agg != nil {
		st = m.agg.Books().Get(symbol)
	}
	stale := st != nil && st.IsStale()
	if stale {
		title = " Order Book [STALE] "
	}

	var lines []string
	lines = append(lines, sellStyle.Render("ASK"))
	if st != nil {
		bids, asks := st.Snapshot()
		if len(asks) > orderBookLevels {
			asks = asks[:orderBookLevels]
		}
		for i := len(asks) - 1; i >= 0; i-- {
			lines = append(lines, sellStyle.Render(levelLine(asks[i])))
		}
		if bid, ask, ok := st.BestBidAsk(); ok {
			spread := ask.Price.Sub(bid.Price)
			lines = append(lines, helpStyle.Render(fmt.Sprintf("--- spread: %s ---", spread.StringFixed(2))))
		}
		lines = append(lines, buyStyle.Render("BID"))
		if len(bids) > orderBookLevels {
			bids = bids[:orderBookLevels]
		}
		for _, lvl := range bids {
			lines = append(lines, buyStyle.Render(levelLine(lvl)))
		}
	} else {
		lines = append(lines, helpStyle.Render("no data"))
	}

	body := strings.Join(lines, "\n")
	style := panelBorder(focused)
	if stale {
		style = style.BorderForeground(colorYellow)
	}
	return style.Width(40).Render(title + "\n" + body)
}

func levelLine(l wire.PriceLevel) string {
	return fmt.Sprintf("%12s %10s", l.Price.StringFixed(2), l.Qty.StringFixed(4))
}

func (m Model) candleSummaryView(symbol string) string {
	title := fmt.Sprintf(" Chart [%s] ", timeframeLabels[m.timeframeIndex(symbol)])

	var candles []string
	if m.agg != nil {
		data := m.agg.Candles(symbol)
		if len(data) == 0 {
			candles = []string{helpStyle.Render("no candle data")}
		} else {
			for _, c := range data[max(0, len(data)-10):] {
				dir := buyStyle
				if c.Close.LessThan(c.Open) {
					dir = sellStyle
				}
				candles = append(candles, dir.Render(fmt.Sprintf("O:%s H:%s L:%s C:%s",
					c.Open.StringFixed(2), c.High.StringFixed(2), c.Low.StringFixed(2), c.Close.StringFixed(2))))
			}
		}
	}

	return unfocusedBorder.Width(60).Render(title + "\n" + strings.Join(candles, "\n"))
}

func (m *Model) timeframeIndex(symbol string) int {
	if idx, ok := m.timeframe[symbol]; ok {
		return idx
	}
	return 0
}

func (m Model) tradesView(symbol string) string {
	var buys, sells []string
	if m.agg != nil {
		for _, t := range m.agg.Trades(symbol) {
			line := fmt.Sprintf("%10s %8s", t.Price.StringFixed(2), t.Qty.StringFixed(4))
			if t.Side == wire.SideBuy {
				buys = append(buys, buyStyle.Render(line))
			} else {
				sells = append(sells, sellStyle.Render(line))
			}
		}
	}
	col := func(title string, style lipgloss.Style, rows []string) string {
		if len(rows) == 0 {
			rows = []string{helpStyle.Render("no trades")}
		}
		return style.Render(title) + "\n" + strings.Join(rows, "\n")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, col("BUY", buyStyle, buys), "  ", col("SELL", sellStyle, sells))
	return unfocusedBorder.Width(40).Render(" Trades \n" + body)
}

func (m Model) ordersPanelView(symbol string) string {
	focused := m.focus == focusOrders
	view := ordersViewOpen
	if v, ok := m.ordersView[symbol]; ok {
		view = v
	}
	label := "Open"
	if view == ordersViewExecuted {
		label = "Executed"
	}
	title := fmt.Sprintf(" Orders [%s] ", label)

	var rows []string
	if m.agg != nil {
		var source []string
		views := m.agg.OpenOrders()
		if view == ordersViewExecuted {
			for _, o := range m.agg.ExecutedOrders() {
				if o.Symbol != symbol {
					continue
				}
				source = append(source, orderLine(o.OrderID, o.Side, o.OrderType, valueOrZero(o.AvgPrice), o.OrderQty))
			}
		} else {
			for _, o := range views {
				if o.Symbol != symbol {
					continue
				}
				source = append(source, orderLine(o.OrderID, o.Side, o.OrderType, valueOrZero(o.LimitPrice), o.OrderQty))
			}
		}
		rows = source
	}
	if len(rows) == 0 {
		rows = []string{helpStyle.Render("no orders")}
	}

	return panelBorder(focused).Width(60).Render(title + "\n" + strings.Join(rows, "\n"))
}

func orderLine(id string, side wire.OrderSide, orderType wire.OrderType, price decimal.Decimal, qty decimal.Decimal) string {
	short := id
	if len(short) > 10 {
		short = short[:10] + "..."
	}
	line := fmt.Sprintf("%-13s %-6s %-8s %12s %10s", short, strings.ToUpper(string(side)), orderType, price.StringFixed(2), qty.StringFixed(4))
	return sideStyle(string(side)).Render(line)
}

func valueOrZero(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
