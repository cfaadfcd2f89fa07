package stack

import (
	"reflect"
	"testing"
)

func sample() Stack {
	return New(42, []Window{2, 3}, []Window{4, 5, 6})
}

func TestIntegrateOrder(t *testing.T) {
	got := sample().Integrate()
	want := []Window{3, 2, 42, 4, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Integrate() = %v, want %v", got, want)
	}
}

func TestFocusDownExample(t *testing.T) {
	s := sample().FocusDown()
	want := New(4, []Window{42, 2, 3}, []Window{5, 6})
	if !s.Equal(want) {
		t.Fatalf("FocusDown() = %+v, want %+v", s, want)
	}
	if !s.Contains(2) {
		t.Fatalf("expected stack to contain 2")
	}
	if s.Contains(99) {
		t.Fatalf("expected stack not to contain 99")
	}
}

func TestFocusUpDownRoundTrip(t *testing.T) {
	stacks := []Stack{
		Singleton(1),
		New(1, nil, []Window{2}),
		New(1, []Window{2}, nil),
		New(42, []Window{2, 3}, []Window{4, 5, 6}),
		New(7, nil, []Window{8, 9, 10}),
		New(7, []Window{8, 9, 10}, nil),
	}
	for _, s := range stacks {
		if got := s.FocusUp().FocusDown(); !got.Equal(s) {
			t.Errorf("FocusUp().FocusDown() on %+v = %+v", s, got)
		}
		if got := s.FocusDown().FocusUp(); !got.Equal(s) {
			t.Errorf("FocusDown().FocusUp() on %+v = %+v", s, got)
		}
	}
}

func TestFocusDownIsCircular(t *testing.T) {
	s := sample()
	got := s
	for i := 0; i < s.Len(); i++ {
		got = got.FocusDown()
	}
	if !got.Equal(s) {
		t.Fatalf("after %d FocusDown calls got %+v, want %+v", s.Len(), got, s)
	}
}

func TestFocusUpWrapsToLast(t *testing.T) {
	s := New(1, nil, []Window{2, 3})
	got := s.FocusUp()
	if got.Focus != 3 {
		t.Fatalf("expected focus 3 after wrap, got %d", got.Focus)
	}
	if !reflect.DeepEqual(got.Integrate(), []Window{1, 2, 3}) {
		t.Fatalf("wrap changed order: %v", got.Integrate())
	}
}

func TestSingletonNavigationIsNoop(t *testing.T) {
	s := Singleton(5)
	for name, got := range map[string]Stack{
		"FocusUp":    s.FocusUp(),
		"FocusDown":  s.FocusDown(),
		"SwapUp":     s.SwapUp(),
		"SwapDown":   s.SwapDown(),
		"SwapMaster": s.SwapMaster(),
	} {
		if !got.Equal(s) {
			t.Errorf("%s on singleton = %+v", name, got)
		}
	}
}

func TestSwapUpDown(t *testing.T) {
	tests := []struct {
		name string
		op   func(Stack) Stack
		in   Stack
		want []Window
	}{
		{"swap up middle", Stack.SwapUp, New(2, []Window{1}, []Window{3}), []Window{2, 1, 3}},
		{"swap up wraps", Stack.SwapUp, New(1, nil, []Window{2, 3}), []Window{2, 3, 1}},
		{"swap down middle", Stack.SwapDown, New(2, []Window{1}, []Window{3}), []Window{1, 3, 2}},
		{"swap down wraps", Stack.SwapDown, New(3, []Window{2, 1}, nil), []Window{3, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op(tt.in)
			if got.Focus != tt.in.Focus {
				t.Fatalf("focus moved from %d to %d", tt.in.Focus, got.Focus)
			}
			if !reflect.DeepEqual(got.Integrate(), tt.want) {
				t.Fatalf("order = %v, want %v", got.Integrate(), tt.want)
			}
		})
	}
}

func TestSwapUpThenDownRestores(t *testing.T) {
	s := sample()
	if got := s.SwapUp().SwapDown(); !got.Equal(s) {
		t.Fatalf("SwapUp().SwapDown() = %+v, want %+v", got, s)
	}
}

func TestSwapMaster(t *testing.T) {
	s := sample()
	got := s.SwapMaster()
	if got.Focus != 42 {
		t.Fatalf("focus = %d, want 42", got.Focus)
	}
	want := []Window{42, 3, 2, 4, 5, 6}
	if !reflect.DeepEqual(got.Integrate(), want) {
		t.Fatalf("order = %v, want %v", got.Integrate(), want)
	}
	if again := got.SwapMaster(); !again.Equal(got) {
		t.Fatalf("SwapMaster on master focus should be idempotent, got %+v", again)
	}
}

func TestFocusMasterAndFocusOn(t *testing.T) {
	s := sample()
	m := s.FocusMaster()
	if m.Focus != 3 || !reflect.DeepEqual(m.Integrate(), s.Integrate()) {
		t.Fatalf("FocusMaster() = %+v", m)
	}

	on, ok := s.FocusOn(5)
	if !ok || on.Focus != 5 {
		t.Fatalf("FocusOn(5) = %+v, %v", on, ok)
	}
	if !reflect.DeepEqual(on.Integrate(), s.Integrate()) {
		t.Fatalf("FocusOn changed order: %v", on.Integrate())
	}

	if same, ok := s.FocusOn(99); ok || !same.Equal(s) {
		t.Fatalf("FocusOn(99) = %+v, %v", same, ok)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		in        Stack
		keep      func(Window) bool
		wantNil   bool
		wantFocus Window
		wantOrder []Window
	}{
		{
			name:      "focus survives",
			in:        sample(),
			keep:      func(w Window) bool { return w != 4 },
			wantFocus: 42,
			wantOrder: []Window{3, 2, 42, 5, 6},
		},
		{
			name:      "focus dropped prefers down",
			in:        sample(),
			keep:      func(w Window) bool { return w != 42 && w != 4 },
			wantFocus: 5,
			wantOrder: []Window{3, 2, 5, 6},
		},
		{
			name:      "focus dropped falls back to up",
			in:        New(3, []Window{2, 1}, []Window{4}),
			keep:      func(w Window) bool { return w < 3 },
			wantFocus: 2,
			wantOrder: []Window{1, 2},
		},
		{
			name:    "nothing survives",
			in:      sample(),
			keep:    func(Window) bool { return false },
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Filter(tt.keep)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("unexpected nil stack")
			}
			if got.Focus != tt.wantFocus {
				t.Fatalf("focus = %d, want %d", got.Focus, tt.wantFocus)
			}
			if !reflect.DeepEqual(got.Integrate(), tt.wantOrder) {
				t.Fatalf("order = %v, want %v", got.Integrate(), tt.wantOrder)
			}
		})
	}
}

func TestContainsAfterInsertAndFilter(t *testing.T) {
	s := Singleton(1).Insert(2).Insert(3)
	if s.Focus != 3 || !reflect.DeepEqual(s.Integrate(), []Window{3, 2, 1}) {
		t.Fatalf("unexpected insert result %+v", s)
	}
	for _, w := range []Window{1, 2, 3} {
		if !s.Contains(w) {
			t.Fatalf("expected %d to be contained", w)
		}
	}

	f := s.Remove(2)
	if f == nil || f.Contains(2) || !f.Contains(1) || !f.Contains(3) {
		t.Fatalf("Remove(2) = %+v", f)
	}
	if Singleton(9).Remove(9) != nil {
		t.Fatalf("removing the last window should yield nil")
	}
}

func TestOperationsDoNotAlias(t *testing.T) {
	s := sample()
	got := s.FocusDown()
	got.Up[0] = 100
	if s.Up[0] != 2 || s.Down[0] != 4 {
		t.Fatalf("mutating result leaked into original: %+v", s)
	}
}

func TestFromList(t *testing.T) {
	if FromList(nil, 0) != nil {
		t.Fatalf("expected nil stack for empty list")
	}
	s := FromList([]Window{1, 2, 3}, 1)
	if s.Focus != 2 || s.Index() != 1 {
		t.Fatalf("FromList focus=%d index=%d", s.Focus, s.Index())
	}
	if !reflect.DeepEqual(s.Integrate(), []Window{1, 2, 3}) {
		t.Fatalf("order = %v", s.Integrate())
	}
}
