package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatNumber(t *testing.T) {
	type args struct {
		v float64
	}
	type want struct {
		result string
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Millions": {
			reason: "Totals >= 1M should be formatted with M suffix.",
			args:   args{v: 1_234_567},
			want:   want{result: "1.2M"},
		},
		"Thousands": {
			reason: "Totals >= 1K should be formatted with K suffix.",
			args:   args{v: 12_345},
			want:   want{result: "12.3K"},
		},
		"Small": {
			reason: "Totals < 1K should be formatted as plain integers.",
			args:   args{v: 999},
			want:   want{result: "999"},
		},
		"ExactBoundaryThousands": {
			reason: "Exactly 1K should use K suffix.",
			args:   args{v: 1_000},
			want:   want{result: "1.0K"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatNumber(tc.args.v)
			if diff := cmp.Diff(tc.want.result, got); diff != "" {
				t.Errorf("\n%s\nFormatNumber(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatKDA(t *testing.T) {
	type args struct {
		kda    float64
		deaths float64
	}
	type want struct {
		result string
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Ratio": {
			reason: "A KDA should be shown with two decimals.",
			args:   args{kda: 10.0 / 3, deaths: 3},
			want:   want{result: "3.33"},
		},
		"Perfect": {
			reason: "A player who never died has a perfect KDA.",
			args:   args{kda: 12, deaths: 0},
			want:   want{result: PerfectKDA},
		},
		"Zero": {
			reason: "A player with no takedowns who died has a zero KDA.",
			args:   args{kda: 0, deaths: 4},
			want:   want{result: "0.00"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatKDA(tc.args.kda, tc.args.deaths)
			if diff := cmp.Diff(tc.want.result, got); diff != "" {
				t.Errorf("\n%s\nFormatKDA(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	type args struct {
		ms int64
	}
	type want struct {
		result string
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"Minutes": {
			reason: "Durations should be shown as minutes and zero-padded seconds.",
			args:   args{ms: 1_805_000},
			want:   want{result: "30:05"},
		},
		"Rounded": {
			reason: "Milliseconds should round to the nearest second.",
			args:   args{ms: 59_600},
			want:   want{result: "1:00"},
		},
		"Zero": {
			reason: "An unknown duration should be 0:00.",
			args:   args{ms: 0},
			want:   want{result: "0:00"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FormatDuration(tc.args.ms)
			if diff := cmp.Diff(tc.want.result, got); diff != "" {
				t.Errorf("\n%s\nFormatDuration(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if diff := cmp.Diff("66.7%", FormatPercent(200.0/3)); diff != "" {
		t.Errorf("FormatPercent(...): -want, +got:\n%s", diff)
	}
}

func TestFormatRecord(t *testing.T) {
	if diff := cmp.Diff("3-1", FormatRecord(3, 1)); diff != "" {
		t.Errorf("FormatRecord(...): -want, +got:\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, []string{"Name", "KDA"}, [][]string{{"Alpha", "3.50"}}); err != nil {
		t.Fatalf("Table: %v", err)
	}
	for _, s := range []string{"name", "alpha", "3.50"} {
		if !strings.Contains(strings.ToLower(buf.String()), s) {
			t.Errorf("Table(...): want output containing %q, got:\n%s", s, buf.String())
		}
	}
}
