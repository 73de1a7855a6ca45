package arbitrage

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

func tonnel(name string, price float64) domain.Listing {
	return domain.Listing{Name: name, Price: price, Market: domain.MarketTonnel}
}

func portals(name string, price float64) domain.Listing {
	return domain.Listing{Name: name, Price: price, Market: domain.MarketPortals}
}

func defaultParams() Params {
	return Params{
		Band:        domain.PriceBand{Min: 1, Max: 10},
		MinProfit:   DefaultMinProfit,
		SellFeeRate: DefaultSellFeeRate,
	}
}

func TestAnalyzeLavaLampExample(t *testing.T) {
	// 6.00*0.95 - 5.00 = 0.70 in one direction; the reverse is -1.25.
	got, err := Analyze(
		[]domain.Listing{tonnel("Lava Lamp", 5.00)},
		[]domain.Listing{portals("Lava Lamp", 6.00)},
		defaultParams(),
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []domain.Opportunity{{
		ItemName:   "Lava Lamp",
		BuyMarket:  domain.MarketTonnel,
		BuyPrice:   5.00,
		SellMarket: domain.MarketPortals,
		SellPrice:  6.00,
		Profit:     0.70,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("analyze = %+v, want %+v", got, want)
	}
}

func TestAnalyzeDisjointMarkets(t *testing.T) {
	got, err := Analyze(
		[]domain.Listing{tonnel("Apple", 2), tonnel("Pear", 3)},
		[]domain.Listing{portals("Mango", 2), portals("Kiwi", 3)},
		defaultParams(),
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("disjoint markets produced %d opportunities", len(got))
	}
}

func TestAnalyzeDirectionality(t *testing.T) {
	// Cheap on portals, expensive on tonnel: only portals->tonnel qualifies.
	got, err := Analyze(
		[]domain.Listing{tonnel("Snow Globe", 8.00)},
		[]domain.Listing{portals("Snow Globe", 5.00)},
		defaultParams(),
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(got))
	}
	opp := got[0]
	if opp.BuyMarket != domain.MarketPortals || opp.SellMarket != domain.MarketTonnel {
		t.Errorf("direction = buy %s sell %s, want buy portals sell tonnel", opp.BuyMarket, opp.SellMarket)
	}
	// 8.00*0.95 - 5.00 = 2.60
	if opp.Profit != 2.60 {
		t.Errorf("profit = %v, want 2.60", opp.Profit)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := []domain.Listing{tonnel("A", 2.0), tonnel("B", 4.0), tonnel("C", 6.0)}
	b := []domain.Listing{portals("A", 3.0), portals("B", 5.5), portals("C", 7.1)}

	first, err := Analyze(a, b, defaultParams())
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	second, err := Analyze(a, b, defaultParams())
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeRankingAndInvariants(t *testing.T) {
	a := []domain.Listing{
		tonnel("A", 2.0), tonnel("B", 3.0), tonnel("C", 4.0), tonnel("D", 5.0),
	}
	b := []domain.Listing{
		portals("A", 3.0), portals("B", 5.0), portals("C", 9.0), portals("D", 6.2),
	}
	p := defaultParams()

	got, err := Analyze(a, b, p)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected opportunities")
	}
	for i, opp := range got {
		if i > 0 && got[i-1].Profit < opp.Profit {
			t.Errorf("ranking violated at %d: %v before %v", i, got[i-1].Profit, opp.Profit)
		}
		if !p.Band.Contains(opp.BuyPrice) {
			t.Errorf("opportunity %q buy price %v outside band", opp.ItemName, opp.BuyPrice)
		}
		if opp.Profit <= p.MinProfit {
			t.Errorf("opportunity %q profit %v not above threshold", opp.ItemName, opp.Profit)
		}
	}
}

func TestAnalyzeTieBreakByName(t *testing.T) {
	// Two gifts with identical prices produce identical profits.
	a := []domain.Listing{tonnel("Zebra", 4.0), tonnel("Apple", 4.0)}
	b := []domain.Listing{portals("Zebra", 6.0), portals("Apple", 6.0)}

	got, err := Analyze(a, b, defaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(got))
	}
	if got[0].ItemName != "Apple" || got[1].ItemName != "Zebra" {
		t.Fatalf("tie-break order = [%s %s], want [Apple Zebra]", got[0].ItemName, got[1].ItemName)
	}
}

func TestAnalyzeStrictProfitThreshold(t *testing.T) {
	// sellFee 0 keeps the arithmetic exact: profit = sell - buy.
	p := Params{Band: domain.PriceBand{Min: 1, Max: 10}, MinProfit: 0.3, SellFeeRate: 0}

	atThreshold, err := Analyze(
		[]domain.Listing{tonnel("Gift", 5.00)},
		[]domain.Listing{portals("Gift", 5.30)},
		p,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(atThreshold) != 0 {
		t.Fatalf("profit exactly at threshold must be excluded, got %+v", atThreshold)
	}

	aboveThreshold, err := Analyze(
		[]domain.Listing{tonnel("Gift", 5.00)},
		[]domain.Listing{portals("Gift", 5.31)},
		p,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(aboveThreshold) != 1 {
		t.Fatalf("profit just above threshold must be included, got %+v", aboveThreshold)
	}
}

func TestAnalyzeRoundsHalfAwayFromZero(t *testing.T) {
	// Raw profit 0.305 rounds up to 0.31 and clears the 0.3 threshold.
	p := Params{Band: domain.PriceBand{Min: 1, Max: 10}, MinProfit: 0.3, SellFeeRate: 0}

	got, err := Analyze(
		[]domain.Listing{tonnel("Gift", 5.00)},
		[]domain.Listing{portals("Gift", 5.305)},
		p,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rounded profit 0.31 must qualify, got %+v", got)
	}
	if got[0].Profit != 0.31 {
		t.Fatalf("profit = %v, want 0.31", got[0].Profit)
	}
}

func TestAnalyzeBandEdgesInclusive(t *testing.T) {
	p := Params{Band: domain.PriceBand{Min: 5, Max: 10}, MinProfit: 0.3, SellFeeRate: 0}

	cases := []struct {
		name     string
		buyPrice float64
		want     int
	}{
		{"at lower edge", 5.00, 1},
		{"at upper edge", 10.00, 1},
		{"below band", 4.99, 0},
		{"above band", 10.01, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Analyze(
				[]domain.Listing{tonnel("Gift", tc.buyPrice)},
				[]domain.Listing{portals("Gift", tc.buyPrice+2)},
				p,
			)
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("buy price %v: got %d opportunities, want %d", tc.buyPrice, len(got), tc.want)
			}
		})
	}
}

func TestAnalyzeUnboundedBand(t *testing.T) {
	p := Params{Band: domain.PriceBand{Min: 20}, MinProfit: 0.3, SellFeeRate: 0.05}

	got, err := Analyze(
		[]domain.Listing{tonnel("Rare Gift", 150.0)},
		[]domain.Listing{portals("Rare Gift", 170.0)},
		p,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unbounded band must admit any price above min, got %+v", got)
	}
	// 170*0.95 - 150 = 11.50
	if got[0].Profit != 11.50 {
		t.Fatalf("profit = %v, want 11.50", got[0].Profit)
	}
}

func TestAnalyzeBuyFeeVariant(t *testing.T) {
	// The original fee model: 3% buy fee, 5% sell fee.
	// 6.00*0.95 - 5.00*1.03 = 5.70 - 5.15 = 0.55.
	p := Params{
		Band:        domain.PriceBand{Min: 1, Max: 10},
		MinProfit:   0.3,
		SellFeeRate: 0.05,
		BuyFeeRate:  0.03,
	}

	got, err := Analyze(
		[]domain.Listing{tonnel("Lava Lamp", 5.00)},
		[]domain.Listing{portals("Lava Lamp", 6.00)},
		p,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(got))
	}
	if got[0].Profit != 0.55 {
		t.Fatalf("profit = %v, want 0.55", got[0].Profit)
	}
	// Band applies to the listed buy price, not the fee-adjusted one.
	if got[0].BuyPrice != 5.00 {
		t.Fatalf("buy price = %v, want listed 5.00", got[0].BuyPrice)
	}
}

func TestAnalyzeEmptyInputsDegradeGracefully(t *testing.T) {
	cases := []struct {
		name string
		a, b []domain.Listing
	}{
		{"both empty", nil, nil},
		{"first empty", nil, []domain.Listing{portals("Gift", 5)}},
		{"second empty", []domain.Listing{tonnel("Gift", 5)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Analyze(tc.a, tc.b, defaultParams())
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("got %d opportunities, want 0", len(got))
			}
		})
	}
}

func TestAnalyzeInvalidParams(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"negative band min", Params{Band: domain.PriceBand{Min: -1, Max: 10}}},
		{"max below min", Params{Band: domain.PriceBand{Min: 10, Max: 5}}},
		{"negative min profit", Params{MinProfit: -0.1}},
		{"negative sell fee", Params{SellFeeRate: -0.05}},
		{"sell fee of one", Params{SellFeeRate: 1.0}},
		{"negative buy fee", Params{BuyFeeRate: -0.01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Analyze(nil, nil, tc.p)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestAnalyzeBothDirectionsCanQualify(t *testing.T) {
	// With zero fees any price gap qualifies in exactly one direction, so use
	// asymmetric listings where each gift qualifies a different way.
	a := []domain.Listing{tonnel("Cheap Here", 2.0), tonnel("Dear Here", 9.0)}
	b := []domain.Listing{portals("Cheap Here", 4.0), portals("Dear Here", 6.0)}

	got, err := Analyze(a, b, defaultParams())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(got))
	}
	byName := map[string]domain.Opportunity{}
	for _, o := range got {
		byName[o.ItemName] = o
	}
	if o := byName["Cheap Here"]; o.BuyMarket != domain.MarketTonnel {
		t.Errorf("Cheap Here buy market = %s, want tonnel", o.BuyMarket)
	}
	if o := byName["Dear Here"]; o.BuyMarket != domain.MarketPortals {
		t.Errorf("Dear Here buy market = %s, want portals", o.BuyMarket)
	}
}
