// SPDX-License-Identifier: MIT

package category

import "testing"

func TestValid(t *testing.T) {
	for _, code := range []string{"bsjkb", "ddry", "fwdj", "gybnx", "msmk", "qjqf"} {
		if !Valid(code) {
			t.Errorf("Valid(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "DDRY", "unknown", "ddry "} {
		if Valid(code) {
			t.Errorf("Valid(%q) = true, want false", code)
		}
	}
}

func TestLabelFallsBackToCode(t *testing.T) {
	if got := Label("ddry"); got != "大道仁医" {
		t.Errorf("Label(ddry) = %q", got)
	}
	if got := Label("nope"); got != "nope" {
		t.Errorf("Label(nope) = %q, want code echoed back", got)
	}
}

func TestAllIsACopy(t *testing.T) {
	a := All()
	if len(a) != 6 {
		t.Fatalf("len(All()) = %d, want 6", len(a))
	}
	a[0].Code = "mutated"
	if All()[0].Code == "mutated" {
		t.Error("All() exposed internal state")
	}
}
