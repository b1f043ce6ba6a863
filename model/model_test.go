package model

import (
	"math"
	"sync"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		input string
		want  ModelName
	}{
		{"gpt-3.5-turbo", ModelGPT35Turbo},
		{"gpt-3.5-turbo-0125", ModelGPT35Turbo},
		{"gpt-3.5-turbo-16k", ModelGPT35Turbo16k},
		{"gpt-3.5-turbo-16k-0613", ModelGPT35Turbo16k},
		{"gpt-4", ModelGPT4},
		{"gpt-4-0613", ModelGPT4},
		{"gpt-4-turbo-2024-04-09", ModelGPT4Turbo},
		{"gpt-4o", ModelGPT4o},
		{"gpt-4o-2024-08-06", ModelGPT4o},
		{"gpt-4o-mini-2024-07-18", ModelGPT4oMini},
		{"  GPT-4O-MINI ", ModelGPT4oMini},
		{"llama3", ModelName("llama3")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeModelName(tt.input); got != tt.want {
				t.Errorf("NormalizeModelName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsKnown(t *testing.T) {
	if !IsKnown("gpt-4o-mini-2024-07-18") {
		t.Error("expected dated snapshot to be known")
	}
	if IsKnown("claude-3") {
		t.Error("expected claude-3 to be unknown")
	}
	if len(KnownModels()) != len(DefaultPrices) {
		t.Error("every known model should have a default price")
	}
}

func TestPriceTable_Cost(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
		wantOK bool
	}{
		{name: "gpt-3.5-turbo", model: "gpt-3.5-turbo", input: 1000, output: 500, want: 0.00125, wantOK: true},
		{name: "gpt-4", model: "gpt-4", input: 1000, output: 1000, want: 0.09, wantOK: true},
		{name: "dated snapshot", model: "gpt-4o-mini-2024-07-18", input: 2000, output: 1000, want: 0.0009, wantOK: true},
		{name: "zero tokens", model: "gpt-4", want: 0, wantOK: true},
		{name: "unknown model", model: "mystery", input: 1000, output: 1000, want: 0, wantOK: false},
		{name: "rounded to six places", model: "gpt-3.5-turbo", input: 1, output: 1, want: 0.000002, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultPrices.Cost(tt.model, tt.input, tt.output)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("Cost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceTable_Price(t *testing.T) {
	b, ok := DefaultPrices.Price("gpt-4-turbo", 1000, 2000)
	if !ok {
		t.Fatal("expected gpt-4-turbo to be priced")
	}
	if !almostEqual(b.InputCost, 0.01) || !almostEqual(b.OutputCost, 0.06) || !almostEqual(b.TotalCost, 0.07) {
		t.Errorf("unexpected breakdown %+v", b)
	}
}

func TestPriceTable_Clone(t *testing.T) {
	c := DefaultPrices.Clone()
	c[ModelGPT4] = Pricing{InputPer1K: 1, OutputPer1K: 1}
	if DefaultPrices[ModelGPT4].InputPer1K == 1 {
		t.Error("Clone returned reference instead of copy")
	}
}

func TestUsageTracker(t *testing.T) {
	t.Run("record and snapshot", func(t *testing.T) {
		tracker := NewUsageTracker()

		tracker.RecordSuccess("gpt-4", 1000, 500, 0.06)
		tracker.RecordSuccess("gpt-4", 500, 250, 0.03)
		tracker.RecordSuccess("gpt-3.5-turbo", 200, 100, 0.00025)
		tracker.RecordFailure("gpt-4")

		s := tracker.Snapshot()
		if s.TotalRequests != 4 || s.SuccessfulRequests != 3 || s.FailedRequests != 1 {
			t.Errorf("counts = %d/%d/%d, want 4/3/1", s.TotalRequests, s.SuccessfulRequests, s.FailedRequests)
		}
		if s.PromptTokens != 1700 || s.CompletionTokens != 850 || s.TotalTokens != 2550 {
			t.Errorf("tokens = %d/%d/%d, want 1700/850/2550", s.PromptTokens, s.CompletionTokens, s.TotalTokens)
		}
		if !almostEqual(s.TotalCost, 0.09025) {
			t.Errorf("TotalCost = %v, want 0.09025", s.TotalCost)
		}

		gpt4 := s.ByModel["gpt-4"]
		if gpt4.Requests != 2 || gpt4.Failures != 1 || gpt4.TotalTokens() != 2250 || !almostEqual(gpt4.Cost, 0.09) {
			t.Errorf("gpt-4 usage = %+v", gpt4)
		}
		if f := s.ByModel["gpt-3.5-turbo"].Failures; f != 0 {
			t.Errorf("gpt-3.5-turbo failures = %d, want 0", f)
		}
		if !almostEqual(s.SuccessRate(), 75) {
			t.Errorf("SuccessRate() = %v, want 75", s.SuccessRate())
		}
	})

	t.Run("failures per model", func(t *testing.T) {
		tracker := NewUsageTracker()
		tracker.RecordFailure("gpt-4o")
		tracker.RecordFailure("gpt-4o")
		tracker.RecordFailure("")

		s := tracker.Snapshot()
		if s.FailedRequests != 3 || s.TotalRequests != 3 {
			t.Errorf("counts = %d/%d, want 3/3", s.FailedRequests, s.TotalRequests)
		}
		if got := s.ByModel["gpt-4o"]; got.Failures != 2 || got.Requests != 0 {
			t.Errorf("gpt-4o usage = %+v, want 2 failures and no requests", got)
		}
		if _, ok := s.ByModel[""]; ok {
			t.Error("empty model must not get a breakdown entry")
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		tracker := NewUsageTracker()
		tracker.RecordSuccess("gpt-4", 1, 1, 0)

		s := tracker.Snapshot()
		s.ByModel["gpt-4"] = Usage{Requests: 999}
		if tracker.Snapshot().ByModel["gpt-4"].Requests == 999 {
			t.Error("Snapshot returned reference instead of copy")
		}
	})

	t.Run("empty success rate", func(t *testing.T) {
		if got := NewUsageTracker().Snapshot().SuccessRate(); got != 0 {
			t.Errorf("SuccessRate() = %v, want 0", got)
		}
	})

	t.Run("reset", func(t *testing.T) {
		tracker := NewUsageTracker()
		tracker.RecordSuccess("gpt-4", 1000, 500, 0.06)
		tracker.Reset()

		s := tracker.Snapshot()
		if s.TotalRequests != 0 || len(s.ByModel) != 0 {
			t.Error("Reset did not clear usage")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		tracker := NewUsageTracker()
		var wg sync.WaitGroup

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					tracker.RecordSuccess("gpt-4", 100, 50, 0.001)
				} else {
					tracker.RecordFailure("gpt-4")
				}
			}(i)
		}

		wg.Wait()

		s := tracker.Snapshot()
		if s.TotalRequests != 100 || s.ByModel["gpt-4"].Requests != 50 || s.ByModel["gpt-4"].Failures != 50 {
			t.Errorf("Concurrent counts = %d/%+v, want 100 with 50/50", s.TotalRequests, s.ByModel["gpt-4"])
		}
	})
}

func TestUsage(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		u1 := Usage{PromptTokens: 100, CompletionTokens: 50, Requests: 1, Cost: 0.5}
		u2 := Usage{PromptTokens: 200, CompletionTokens: 100, Requests: 2, Cost: 0.25}

		u1.Add(u2)
		if u1.PromptTokens != 300 || u1.CompletionTokens != 150 || u1.Requests != 3 || !almostEqual(u1.Cost, 0.75) {
			t.Errorf("After Add: %+v", u1)
		}
	})

	t.Run("total tokens", func(t *testing.T) {
		u := Usage{PromptTokens: 100, CompletionTokens: 50}
		if got := u.TotalTokens(); got != 150 {
			t.Errorf("TotalTokens() = %d, want 150", got)
		}
	})
}
