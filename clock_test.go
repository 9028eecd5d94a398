package pio

import "testing"

func TestFractionalDividerDefaultDividesByOne(t *testing.T) {
	d := NewFractionalDivider()
	for i := 0; i < 5; i++ {
		edge := d.Tick()
		if edge&RisingEdge == 0 {
			t.Fatalf("tick %d: expected rising edge at divisor 1", i)
		}
	}
}

func TestFractionalDividerDivideByTwo(t *testing.T) {
	d := NewFractionalDivider()
	d.SetCLKDIV(2, 0)
	var edges int
	for i := 0; i < 10; i++ {
		if d.Tick()&RisingEdge != 0 {
			edges++
		}
	}
	if edges != 5 {
		t.Fatalf("10 system ticks at divisor 2 produced %d edges, want 5", edges)
	}
}

func TestFractionalDividerCLKDIVRoundTrip(t *testing.T) {
	d := NewFractionalDivider()
	d.SetCLKDIV(7, 128)
	whole, frac := d.CLKDIV()
	if whole != 7 || frac != 128 {
		t.Fatalf("CLKDIV() = (%d,%d), want (7,128)", whole, frac)
	}
}

func TestFractionalDividerSetIntegerAndFractionalBits(t *testing.T) {
	d := NewFractionalDivider()
	d.SetDivIntegerBits(3)
	d.SetDivFractionalBits(64)
	whole, frac := d.CLKDIV()
	if whole != 3 || frac != 64 {
		t.Fatalf("CLKDIV() = (%d,%d), want (3,64)", whole, frac)
	}
}

func TestFractionalDividerRestart(t *testing.T) {
	d := NewFractionalDivider()
	d.SetCLKDIV(4, 0)
	d.Tick()
	d.Tick()
	d.Restart()
	var edges int
	for i := 0; i < 3; i++ {
		if d.Tick()&RisingEdge != 0 {
			edges++
		}
	}
	if edges != 0 {
		t.Fatalf("expected no edge within 3 ticks of a fresh divide-by-4 phase, got %d", edges)
	}
}
