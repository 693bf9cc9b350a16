package marketdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyfcoding/pkg/xerrors"
)

func TestParsePricesTakesLastColumn(t *testing.T) {
	input := "date,open,close\n" +
		"2024-01-02,99.5,100\n" +
		"2024-01-03,100.1,101.5\n" +
		"2024-01-04,101,99.75\n"

	history, err := parsePrices(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{100, 101.5, 99.75}
	if len(history.Prices) != len(want) {
		t.Fatalf("got %d prices, want %d", len(history.Prices), len(want))
	}
	for i, p := range want {
		if history.Prices[i] != p {
			t.Errorf("price[%d] = %v, want %v", i, history.Prices[i], p)
		}
	}
	if history.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (header row)", history.Skipped)
	}
}

func TestParsePricesSkipsBadRows(t *testing.T) {
	// 非数值、零和负价都不能进入波动率估计。
	input := "100\nn/a\n-5\n0\n101.25\n"

	history, err := parsePrices(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history.Prices) != 2 || history.Prices[0] != 100 || history.Prices[1] != 101.25 {
		t.Errorf("prices = %v, want [100 101.25]", history.Prices)
	}
	if history.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", history.Skipped)
	}
}

func TestParsePricesEmptyInput(t *testing.T) {
	if _, err := parsePrices(strings.NewReader("close\n")); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("got %v, want ErrEmptyData", err)
	}
	if _, err := parsePrices(strings.NewReader("")); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("empty reader: got %v, want ErrEmptyData", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte("close\n100\n105\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewCSVHistorySource()
	history, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history.Prices) != 2 || history.Skipped != 1 {
		t.Errorf("unexpected history: %+v", history)
	}

	if _, err := src.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
