package llm

import "testing"

func TestRepairJSON_FencedReply(t *testing.T) {
	raw := "```json\n{\"product_name\":\"Milk\",\"company\":null}\n```"
	got := RepairJSON(raw)
	want := `{"product_name":"Milk","company":null}`
	if got != want {
		t.Errorf("RepairJSON() = %q, want %q", got, want)
	}
}

func TestRepairJSON_ProseWrapped(t *testing.T) {
	raw := "Sure! Here is the extracted data: {\"company\": \"Acme\"} — hope this helps."
	got := RepairJSON(raw)
	want := `{"company": "Acme"}`
	if got != want {
		t.Errorf("RepairJSON() = %q, want %q", got, want)
	}
}

func TestRepairJSON_NoObject(t *testing.T) {
	for _, raw := range []string{
		"I think the answer is not JSON",
		"",
		"   \n\t ",
		"]}{[",
	} {
		if got := RepairJSON(raw); got != "{}" {
			t.Errorf("RepairJSON(%q) = %q, want {}", raw, got)
		}
	}
}

func TestRepairJSON_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a": 1}`,
		`{"nested": {"b": "c"}}`,
		"```json\n{\"a\": \"b}c\"}\n```",
		"no json here at all",
	}
	for _, in := range inputs {
		once := RepairJSON(in)
		twice := RepairJSON(once)
		if once != twice {
			t.Errorf("RepairJSON not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestRepairJSON_GreedySpan(t *testing.T) {
	// Two independent objects merge into one span, an accepted limitation
	// of the greedy scan.
	raw := `{"a": 1} trailing {"b": 2}`
	got := RepairJSON(raw)
	want := `{"a": 1} trailing {"b": 2}`
	if got != want {
		t.Errorf("RepairJSON() = %q, want %q", got, want)
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<div>bonjour <b>Madame</b> Sakho</div>")
	want := "bonjour Madame Sakho"
	if got != want {
		t.Errorf("StripHTML() = %q, want %q", got, want)
	}
}
