package hashkernel

import "testing"

func TestVariationsCount(t *testing.T) {
	got := Variations("a\n")
	if len(got) != 18 {
		t.Fatalf("expected 18 variations, got %d", len(got))
	}
}

func TestVariationsCRLFToLFMatch(t *testing.T) {
	declared := Keccak256("a\n")

	provided := "a\r\n"
	matched := false
	for _, variant := range Variations(provided) {
		if Keccak256(variant) == declared {
			matched = true
			break
		}
	}
	if !matched {
		t.Fatalf("expected a CRLF->LF variant of %q to hash to %s", provided, declared)
	}
}

func TestVariationsTrimMatch(t *testing.T) {
	declared := Keccak256("a")

	provided := "a   \n"
	matched := false
	for _, variant := range Variations(provided) {
		if Keccak256(variant) == declared {
			matched = true
			break
		}
	}
	if !matched {
		t.Fatalf("expected a right-trim variant of %q to hash to %s", provided, declared)
	}
}

func TestKeccak256Format(t *testing.T) {
	got := Keccak256("")
	want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got != want {
		t.Fatalf("keccak256(\"\") = %s, want %s", got, want)
	}
}
