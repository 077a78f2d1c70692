package hud

import (
	"testing"

	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	if got := Classify(10, 5); got != Decreased {
		t.Errorf("Classify(10, 5) = %v, want decreased", got)
	}
	if got := Classify(5, 10); got != Increased {
		t.Errorf("Classify(5, 10) = %v, want increased", got)
	}
	if got := Classify(5, 5); got != Unchanged {
		t.Errorf("Classify(5, 5) = %v, want unchanged", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value, max, want float64
	}{
		{50, 100, 50},
		{0, 100, 0},
		{150, 100, 100},
		{-10, 100, 0},
		{10, 0, 0},
		{10, -5, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.value, tt.max); got != tt.want {
			t.Errorf("Percent(%v, %v) = %v, want %v", tt.value, tt.max, got, tt.want)
		}
	}
}

func TestSelectEffectPriority(t *testing.T) {
	tests := []struct {
		name  string
		delta Delta
		want  Effect
	}{
		{"nothing changed", Delta{}, EffectNone},
		{"counter spent beats damage", Delta{Primary: Decreased, Counter: Decreased}, EffectUltimate},
		{"counter spent beats everything", Delta{Primary: Increased, Secondary: Decreased, Counter: Decreased}, EffectUltimate},
		{"counter gained plays nothing", Delta{Counter: Increased}, EffectNone},
		{"damage", Delta{Primary: Decreased}, EffectShake},
		{"damage beats casting", Delta{Primary: Decreased, Secondary: Decreased}, EffectShake},
		{"heal", Delta{Primary: Increased}, EffectHeal},
		{"heal beats surge", Delta{Primary: Increased, Secondary: Increased}, EffectHeal},
		{"cast", Delta{Secondary: Decreased}, EffectCast},
		{"surge", Delta{Secondary: Increased}, EffectSurge},
		{"damage while gaining counter", Delta{Primary: Decreased, Counter: Increased}, EffectShake},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectEffect(tt.delta); got != tt.want {
				t.Errorf("SelectEffect(%+v) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}

func TestCompareIgnoresAbsentChannels(t *testing.T) {
	prev := Snapshot{Primary: 10, Secondary: 10, Counter: 5}
	next := Snapshot{Primary: 10, Secondary: 0, Counter: 0}
	if got := EffectFor(prev, next, Channels{}); got != EffectNone {
		t.Errorf("EffectFor without channels = %q, want none", got)
	}
	if got := EffectFor(prev, next, Channels{Secondary: true}); got != EffectCast {
		t.Errorf("EffectFor with secondary = %q, want cast", got)
	}
	if got := EffectFor(prev, next, Channels{Secondary: true, Counter: true}); got != EffectUltimate {
		t.Errorf("EffectFor with counter = %q, want ultimate", got)
	}
}

func TestOverload(t *testing.T) {
	tests := []struct {
		counter   int
		overload  bool
		intensity float64
	}{
		{0, false, 0},
		{4, false, 0},
		{5, true, 1.0 / 6},
		{7, true, 0.5},
		{10, true, 1},
		{12, true, 1},
	}
	for _, tt := range tests {
		overload, intensity := Overload(tt.counter)
		if overload != tt.overload || intensity != tt.intensity {
			t.Errorf("Overload(%d) = (%v, %v), want (%v, %v)", tt.counter, overload, intensity, tt.overload, tt.intensity)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		percent, value float64
		want           Status
	}{
		{100, 100, StatusPerfect},
		{99, 99, StatusLight},
		{75, 75, StatusLight},
		{74, 74, StatusWounded},
		{50, 50, StatusWounded},
		{49, 49, StatusBadly},
		{25, 25, StatusBadly},
		{24, 24, StatusCritical},
		{0.5, 0.5, StatusCritical},
		{0, 0, StatusDead},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.percent, tt.value); got != tt.want {
			t.Errorf("StatusFor(%v, %v) = %q, want %q", tt.percent, tt.value, got.Label, tt.want.Label)
		}
	}
}

func TestEffectProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := Channels{
			Secondary: rapid.Bool().Draw(t, "secondary"),
			Counter:   rapid.Bool().Draw(t, "counter"),
		}
		prev := Snapshot{
			Primary:   rapid.Float64Range(0, 200).Draw(t, "prev_primary"),
			Secondary: rapid.Float64Range(0, 200).Draw(t, "prev_secondary"),
			Counter:   rapid.IntRange(0, 10).Draw(t, "prev_counter"),
		}
		next := Snapshot{
			Primary:   rapid.Float64Range(0, 200).Draw(t, "next_primary"),
			Secondary: rapid.Float64Range(0, 200).Draw(t, "next_secondary"),
			Counter:   rapid.IntRange(0, 10).Draw(t, "next_counter"),
		}

		if got := EffectFor(next, next, ch); got != EffectNone {
			t.Fatalf("identical snapshots produced %q", got)
		}

		got := EffectFor(prev, next, ch)
		if ch.Counter && next.Counter < prev.Counter && got != EffectUltimate {
			t.Fatalf("counter spent but effect is %q", got)
		}
		if got == EffectCast || got == EffectSurge {
			if prev.Primary != next.Primary {
				t.Fatalf("secondary effect %q chosen while primary changed", got)
			}
		}
	})
}

func TestPercentProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Float64Range(-1000, 1000).Draw(t, "value")
		maxValue := rapid.Float64Range(-10, 1000).Draw(t, "max")
		p := Percent(value, maxValue)
		if p < 0 || p > 100 {
			t.Fatalf("Percent(%v, %v) = %v out of range", value, maxValue, p)
		}
	})
}
