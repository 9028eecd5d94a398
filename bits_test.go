package pio

import "testing"

func TestMask32(t *testing.T) {
	cases := []struct {
		n    uint
		want uint32
	}{
		{0, 0},
		{1, 0x1},
		{4, 0xF},
		{31, 0x7FFFFFFF},
		{32, 0xFFFFFFFF},
		{40, 0xFFFFFFFF},
	}
	for _, c := range cases {
		if got := mask32(c.n); got != c.want {
			t.Errorf("mask32(%d) = %#x, want %#x", c.n, got, c.want)
		}
	}
}

func TestShiftLeft32(t *testing.T) {
	if got := shiftLeft32(1, 31); got != 0x80000000 {
		t.Errorf("shiftLeft32(1,31) = %#x", got)
	}
	if got := shiftLeft32(1, 32); got != 0 {
		t.Errorf("shiftLeft32(1,32) = %#x, want 0", got)
	}
	if got := shiftLeft32(0xFFFFFFFF, 0); got != 0xFFFFFFFF {
		t.Errorf("shiftLeft32(x,0) = %#x", got)
	}
}

func TestShiftRight32(t *testing.T) {
	if got := shiftRight32(0x80000000, 31); got != 1 {
		t.Errorf("shiftRight32(0x80000000,31) = %#x", got)
	}
	if got := shiftRight32(0xFFFFFFFF, 32); got != 0 {
		t.Errorf("shiftRight32(x,32) = %#x, want 0", got)
	}
}

func TestReverse32(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0x80000000},
		{0x80000000, 1},
		{0x000000FF, 0xFF000000},
	}
	for _, c := range cases {
		if got := reverse32(c.in); got != c.want {
			t.Errorf("reverse32(%#x) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestReverse32Involution(t *testing.T) {
	vals := []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x12345678}
	for _, v := range vals {
		if got := reverse32(reverse32(v)); got != v {
			t.Errorf("reverse32(reverse32(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestSaturatingAdd(t *testing.T) {
	cases := []struct {
		count, n, want uint8
	}{
		{0, 0, 0},
		{30, 2, 32},
		{30, 5, 32},
		{0, 32, 32},
		{31, 1, 32},
	}
	for _, c := range cases {
		if got := saturatingAdd(c.count, c.n); got != c.want {
			t.Errorf("saturatingAdd(%d,%d) = %d, want %d", c.count, c.n, got, c.want)
		}
	}
}
