package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const (
	compactShown = 4
	nameWidth    = 40
)

// ConsoleConfig controla qué imprime el Console.
type ConsoleConfig struct {
	Table             bool    // tabla completa en vez de una línea por ciclo
	Detail            bool    // tabla de combinaciones bajo cada arbitraje
	ReferenceBankroll float64 // capital para re-evaluar combinaciones en PrintDetail
}

// Console implementa ports.Notifier.
type Console struct {
	out io.Writer
	cfg ConsoleConfig
	now func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(cfg ConsoleConfig) *Console {
	return NewConsoleWriter(os.Stdout, cfg)
}

// NewConsoleWriter crea un notificador sobre cualquier writer (tests, ficheros).
func NewConsoleWriter(w io.Writer, cfg ConsoleConfig) *Console {
	if cfg.ReferenceBankroll <= 0 {
		cfg.ReferenceBankroll = 100
	}
	return &Console{out: w, cfg: cfg, now: time.Now}
}

// Notify imprime el output en el modo configurado.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no new events\n", c.now().Format("15:04:05"))
		return nil
	}

	if c.cfg.Table {
		c.printFull(opportunities)
	} else {
		c.printCompact(opportunities)
	}
	return nil
}

// printCompact imprime una línea por ciclo con los mejores arbitrajes.
func (c *Console) printCompact(opps []domain.Opportunity) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d events → arb:%d", c.now().Format("15:04:05"), len(opps), countArbitrages(opps))

	shown := 0
	for _, opp := range opps {
		if shown >= compactShown || !opp.IsArbitrage() {
			break
		}
		fmt.Fprintf(&sb, " | %s +$%.2f (%.2f%%)",
			compactName(opp.Event.Name(), 30), opp.Result.Profit, opp.Result.Margin*100)
		shown++
	}
	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de eventos y el desglose de cada arbitraje.
func (c *Console) printFull(opps []domain.Opportunity) {
	fmt.Fprintf(c.out, "\n[%s] %d events, %d arbitrages\n",
		c.now().Format("15:04:05"), len(opps), countArbitrages(opps))

	c.printTable(opps)

	for _, opp := range opps {
		if !opp.IsArbitrage() {
			continue
		}
		c.printArbitrage(opp)
		if c.cfg.Detail && len(opp.Combinations) > 0 {
			c.printCombinations(opp.Combinations)
		}
	}
	fmt.Fprintln(c.out)
}

// printTable imprime una fila por evento con la mejor cuota de cada outcome.
func (c *Console) printTable(opps []domain.Opportunity) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Match", "Home", "Draw", "Away", "Arb?", "Profit")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateName(opp.Event.Name(), opp.Event.ID, nameWidth),
			bestLabel(opp.Best, domain.Home),
			bestLabel(opp.Best, domain.Draw),
			bestLabel(opp.Best, domain.Away),
			arbMark(opp.IsArbitrage()),
			fmt.Sprintf("$%.2f", opp.Result.Profit),
		)
	}
	table.Render()
}

// printArbitrage imprime el reparto de stakes de un arbitraje.
func (c *Console) printArbitrage(opp domain.Opportunity) {
	r := opp.Result
	fmt.Fprintf(c.out, "\n=== ARBITRAGE: %s ===\n", opp.Event.Name())
	fmt.Fprintf(c.out, "  id: %s", opp.Event.ID)
	if !opp.Event.CommenceTime.IsZero() {
		fmt.Fprintf(c.out, "  starts: %s", opp.Event.CommenceTime.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(c.out)

	for i, out := range opp.Best.Outcomes {
		fmt.Fprintf(c.out, "  %-5s %-20s odds %6.2f  stake $%.2f\n",
			out.String(), opp.Best.Bookmakers[i], opp.Best.Odds[i], r.Stakes[i])
	}
	fmt.Fprintf(c.out, "  total stake $%.2f | payout $%.2f | profit $%.2f | ROI %.2f%% | margin %.2f%%\n",
		r.TotalStake(), r.Payout, r.Profit, r.ROI()*100, r.Margin*100)
}

// printCombinations imprime todas las combinaciones de casas evaluadas.
func (c *Console) printCombinations(combos []domain.CombinationResult) {
	fmt.Fprintf(c.out, "\n  All bookmaker combinations (%d, %d arbitrage)\n",
		len(combos), domain.CountArbitrages(combos))

	table := tablewriter.NewWriter(c.out)
	table.Header("Site H", "H", "Site D", "D", "Site A", "A", "Arb?", "Profit")

	for _, cr := range combos {
		row := make([]string, 0, 8)
		for _, out := range []domain.Outcome{domain.Home, domain.Draw, domain.Away} {
			site, odds := "-", "-"
			if i := indexOf(cr.Outcomes, out); i >= 0 {
				site = cr.Sites[i]
				odds = fmt.Sprintf("%.2f", cr.Odds[i])
			}
			row = append(row, site, odds)
		}
		row = append(row, arbMark(cr.IsArbitrage), fmt.Sprintf("$%.2f", cr.Profit))
		table.Append(row)
	}
	table.Render()
}

// PrintHistory imprime los arbitrajes guardados en ciclos anteriores.
func (c *Console) PrintHistory(opps []domain.Opportunity) {
	if len(opps) == 0 {
		fmt.Fprintln(c.out, "\n  No stored arbitrages yet.")
		return
	}

	fmt.Fprintf(c.out, "\nLoaded %d historical arbitrages\n", len(opps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Event ID", "Match", "Home", "Draw", "Away", "Profit", "ROI", "Seen")
	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Event.ID,
			domain.TruncateName(opp.Event.Name(), opp.Event.ID, nameWidth),
			bestLabel(opp.Best, domain.Home),
			bestLabel(opp.Best, domain.Draw),
			bestLabel(opp.Best, domain.Away),
			fmt.Sprintf("$%.2f", opp.Result.Profit),
			fmt.Sprintf("%.2f%%", opp.Result.ROI()*100),
			opp.ScannedAt.Local().Format("01-02 15:04"),
		)
	}
	table.Render()
}

// PrintDetail imprime las cuotas crudas de un evento guardado (mejor precio
// marcado con *) y todas las combinaciones de casas re-evaluadas.
func (c *Console) PrintDetail(opp domain.Opportunity) {
	ev := opp.Event
	fmt.Fprintf(c.out, "\nDetails: %s\n", ev.Name())
	fmt.Fprintf(c.out, "  id: %s\n\n", ev.ID)
	fmt.Fprintln(c.out, "  Bookmaker odds (best price per outcome marked *)")

	best, bestErr := domain.BestOddsFor(ev)

	table := tablewriter.NewWriter(c.out)
	table.Header("Site", "Home", "Draw", "Away")
	for _, b := range ev.Bookmakers {
		row := []string{b.Site}
		for _, out := range []domain.Outcome{domain.Home, domain.Draw, domain.Away} {
			v, ok := b.PriceFor(out).Get()
			if !ok {
				row = append(row, "-")
				continue
			}
			cell := fmt.Sprintf("%.2f", v)
			if bestErr == nil && indexOf(best.Outcomes, out) >= 0 && best.OddsFor(out) == v {
				cell += " *"
			}
			row = append(row, cell)
		}
		table.Append(row)
	}
	table.Render()

	if opp.IsArbitrage() {
		c.printArbitrage(opp)
	}

	combos := domain.EvaluateCombinations(ev.Bookmakers, ev.Outcomes(), c.cfg.ReferenceBankroll)
	if len(combos) == 0 {
		fmt.Fprintln(c.out, "\n  No complete bookmaker combinations.")
		return
	}
	c.printCombinations(combos)
	fmt.Fprintln(c.out)
}

// --- helpers ---

func countArbitrages(opps []domain.Opportunity) int {
	n := 0
	for _, o := range opps {
		if o.IsArbitrage() {
			n++
		}
	}
	return n
}

func bestLabel(b domain.BestOdds, out domain.Outcome) string {
	i := indexOf(b.Outcomes, out)
	if i < 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", b.Odds[i], b.Bookmakers[i])
}

func indexOf(outcomes []domain.Outcome, out domain.Outcome) int {
	for i, o := range outcomes {
		if o == out {
			return i
		}
	}
	return -1
}

func arbMark(isArb bool) string {
	if isArb {
		return "✓"
	}
	return "✗"
}

func compactName(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	cut := string(r[:maxLen])
	if idx := strings.LastIndex(cut, " "); idx >= 0 && utf8.RuneCountInString(cut[:idx]) > maxLen/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
